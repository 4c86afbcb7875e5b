package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Session
	now   func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Session), now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	if s.ID == "" || s.Identity.ID == "" {
		return errors.New("session: missing id or identity")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.items[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(m.now()) {
		delete(m.items, id)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Update(_ context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session: missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Expired(m.now()) {
		delete(m.items, s.ID)
		return nil
	}
	m.items[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.items)
}

// sweepLocked drops expired sessions. Callers hold mu.
func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, s := range m.items {
		if s.Expired(now) {
			delete(m.items, id)
		}
	}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
