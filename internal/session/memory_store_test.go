package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/go-pokemon-api/internal/domain"
)

var ash = domain.Identity{Provider: "github", ID: "42", Username: "ash", DisplayName: "Ash Ketchum"}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	s, err := New(ash, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil || got.Identity.Username != "ash" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}

	s.ExpiresAt = s.ExpiresAt.Add(time.Hour)
	if err := m.Update(ctx, s); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = m.Get(ctx, s.ID)
	if !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Fatalf("expiry not updated: %v", got.ExpiresAt)
	}

	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	// deleting twice is fine
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s, _ := New(ash, time.Minute, now)
	_ = m.Create(ctx, s)
	if m.Len() != 1 {
		t.Fatalf("Len=%d", m.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for expired session, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expired session not dropped, Len=%d", m.Len())
	}
}

func TestMemoryStore_RejectsIncompleteSessions(t *testing.T) {
	m := NewMemoryStore()
	if err := m.Create(context.Background(), Session{ID: "x"}); err == nil {
		t.Fatal("expected error without identity")
	}
	if err := m.Update(context.Background(), Session{}); err == nil {
		t.Fatal("expected error without id")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, _ := New(ash, time.Hour, time.Now())
			_ = m.Create(ctx, s)
			_, _ = m.Get(ctx, s.ID)
			_ = m.Delete(ctx, s.ID)
		}()
	}
	wg.Wait()
	if m.Len() != 0 {
		t.Fatalf("Len=%d", m.Len())
	}
}

func TestGenerateID_UniqueAndURLSafe(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID: %v", err)
		}
		if len(id) != 43 {
			t.Fatalf("unexpected id length %d (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now}
	if !s.Expired(now) || s.Expired(now.Add(-time.Second)) {
		t.Fatal("Expired boundary wrong")
	}
}
