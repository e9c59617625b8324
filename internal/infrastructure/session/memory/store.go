// Package memory keeps session records in process memory. It is meant for
// local development and tests; records do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/miapp/portal/internal/core/ports"
)

// Backend maps session ids to records.
type Backend struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewBackend() *Backend {
	return &Backend{sessions: make(map[string]map[string]string)}
}

// Bind returns the record for sessionID. The record is created lazily on
// the first write.
func (b *Backend) Bind(sessionID string) ports.SessionStore {
	return &store{backend: b, sid: sessionID}
}

// Len reports how many sessions hold at least one key.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}

type store struct {
	backend *Backend
	sid     string
}

func (s *store) Get(_ context.Context, key string) (string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	return s.backend.sessions[s.sid][key], nil
}

func (s *store) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	rec, ok := s.backend.sessions[s.sid]
	if !ok {
		rec = make(map[string]string)
		s.backend.sessions[s.sid] = rec
	}
	rec[key] = value
	return nil
}

func (s *store) Clear(_ context.Context) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.sessions, s.sid)
	return nil
}
