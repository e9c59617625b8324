package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Key format: activity:<session_id>:<kind>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this activity has already been recorded.
func (d *DedupChecker) IsDuplicate(ctx context.Context, sessionID, kind string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(sessionID, kind, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this activity has been stored (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, sessionID, kind string, ts time.Time) error {
	return d.client.Set(ctx, dedupKey(sessionID, kind, ts), "1", dedupTTL).Err()
}

func dedupKey(sessionID, kind string, ts time.Time) string {
	return fmt.Sprintf("activity:%s:%s:%d", sessionID, kind, ts.Unix())
}
