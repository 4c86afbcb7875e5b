// Package session implements server-side login sessions: the Session record,
// the Store contract with Redis and in-memory backends, and the signed
// cookie that carries the session id to the browser.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/tbourn/go-pokemon-api/internal/domain"
)

// ErrNotFound is returned by Store.Get for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one authenticated browser session.
type Session struct {
	ID        string          `json:"id"`
	Identity  domain.Identity `json:"identity"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// New builds a session for identity with a fresh id, valid for ttl.
func New(identity domain.Identity, ttl time.Duration, now time.Time) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        id,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Expired reports whether s is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Implementations must drop sessions once ExpiresAt has passed.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
