package ports

import "context"

// SessionStore is the client session record of a single visitor.
// Get returns "" for unset keys; it never reports absence as an error.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Clear erases every key of the record.
	Clear(ctx context.Context) error
}

// SessionBackend hands out the record bound to a session id.
type SessionBackend interface {
	Bind(sessionID string) SessionStore
}
