package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
)

const collectionSessionEvents = "session_events"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionSessionEvents)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// InsertEvent persists an audit event with its processing time.
func (r *ActivityRepository) InsertEvent(ctx context.Context, ev *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"session_id":   ev.SessionID,
		"kind":         string(ev.Kind),
		"occurred_at":  ev.OccurredAt.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if ev.Classification != "" {
		doc["classification"] = string(ev.Classification)
	}
	if ev.Role != "" {
		doc["role"] = ev.Role
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the indexes used to read a session's history.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
