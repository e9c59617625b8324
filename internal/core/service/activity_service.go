package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, sessionID, kind string, ts time.Time) (bool, error)
	Mark(ctx context.Context, sessionID, kind string, ts time.Time) error
}

type activityService struct {
	repo  ports.ActivityRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewActivityService returns an ActivityService implementation. dedup may be
// nil, in which case every event is stored.
func NewActivityService(repo ports.ActivityRepository, dedup DedupChecker, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single audit event. Events of the same
// kind for the same session within one second collapse into one.
func (s *activityService) Process(ctx context.Context, ev domain.ActivityEvent) error {
	if ev.SessionID == "" || ev.Kind == "" {
		return fmt.Errorf("process activity: %w", domain.ErrInvalidSession)
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, ev.SessionID, string(ev.Kind), ev.OccurredAt)
		if err != nil {
			s.log.Warn().Err(err).Str("session", ev.SessionID).Msg("dedup check failed, recording anyway")
		} else if isDup {
			s.log.Debug().Str("session", ev.SessionID).Str("kind", string(ev.Kind)).Msg("duplicate activity skipped")
			return nil
		}

		if err := s.dedup.Mark(ctx, ev.SessionID, string(ev.Kind), ev.OccurredAt); err != nil {
			s.log.Warn().Err(err).Str("session", ev.SessionID).Msg("failed to set dedup key")
		}
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("process activity: insert: %w", err)
	}

	s.log.Debug().
		Str("session", ev.SessionID).
		Str("kind", string(ev.Kind)).
		Str("classification", string(ev.Classification)).
		Msg("activity recorded")
	return nil
}
