package service

import (
	"context"
	"fmt"

	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
)

// ReadRecord returns a snapshot of the whole session record.
func ReadRecord(ctx context.Context, store ports.SessionStore) (domain.SessionRecord, error) {
	var rec domain.SessionRecord
	fields := []struct {
		key string
		dst *string
	}{
		{domain.KeyUserID, &rec.UserID},
		{domain.KeyUserName, &rec.UserName},
		{domain.KeyPreferredRole, &rec.PreferredRole},
	}
	for _, f := range fields {
		v, err := store.Get(ctx, f.key)
		if err != nil {
			return domain.SessionRecord{}, fmt.Errorf("read record: %w: %v", domain.ErrSessionUnavailable, err)
		}
		*f.dst = v
	}
	return rec, nil
}

// AdoptSession writes the identity fields a login flow hands over. No
// credentials are checked here; the caller is whatever completed the login.
// The preferred role is left as it was.
func AdoptSession(ctx context.Context, store ports.SessionStore, userID, userName string) error {
	if userID == "" {
		return fmt.Errorf("adopt session: %w: usuario_id is empty", domain.ErrInvalidSession)
	}
	if err := store.Set(ctx, domain.KeyUserID, userID); err != nil {
		return fmt.Errorf("adopt session: %w: %v", domain.ErrSessionUnavailable, err)
	}
	if err := store.Set(ctx, domain.KeyUserName, userName); err != nil {
		return fmt.Errorf("adopt session: %w: %v", domain.ErrSessionUnavailable, err)
	}
	return nil
}
