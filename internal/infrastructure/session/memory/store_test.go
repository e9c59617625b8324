package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/miapp/portal/internal/core/domain"
)

func TestStore_GetUnsetIsEmpty(t *testing.T) {
	s := NewBackend().Bind("a")
	v, err := s.Get(context.Background(), domain.KeyUserID)
	if err != nil || v != "" {
		t.Fatalf("expected empty value, got %q err=%v", v, err)
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	s := b.Bind("a")

	_ = s.Set(ctx, domain.KeyUserID, "42")
	_ = s.Set(ctx, domain.KeyUserName, "Ana")
	if v, _ := s.Get(ctx, domain.KeyUserName); v != "Ana" {
		t.Fatalf("expected Ana, got %q", v)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if v, _ := s.Get(ctx, domain.KeyUserID); v != "" {
		t.Fatalf("expected cleared record, got %q", v)
	}
	if b.Len() != 0 {
		t.Fatalf("expected no sessions left, got %d", b.Len())
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	_ = b.Bind("a").Set(ctx, domain.KeyUserID, "1")

	if v, _ := b.Bind("b").Get(ctx, domain.KeyUserID); v != "" {
		t.Fatalf("session b sees session a's record: %q", v)
	}
	_ = b.Bind("b").Clear(ctx)
	if v, _ := b.Bind("a").Get(ctx, domain.KeyUserID); v != "1" {
		t.Fatalf("clearing b affected a")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := b.Bind("shared")
			_ = s.Set(ctx, domain.KeyPreferredRole, "cliente")
			_, _ = s.Get(ctx, domain.KeyPreferredRole)
			if i%8 == 0 {
				_ = s.Clear(ctx)
			}
		}(i)
	}
	wg.Wait()
}
