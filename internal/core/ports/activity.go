package ports

import (
	"context"

	"github.com/miapp/portal/internal/core/domain"
)

// ActivityRecorder accepts audit events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityRepository persists audit events.
type ActivityRepository interface {
	InsertEvent(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityService processes a single audit event.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}
