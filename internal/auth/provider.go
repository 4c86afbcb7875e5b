// Package auth holds the OAuth login flow: the provider contract and its
// GitHub implementation, the Anonymous/Pending/Authenticated state machine,
// identity normalization, and request-context helpers for the resolved
// identity.
package auth

import (
	"context"
	"errors"
)

// ErrNoUser is returned when a provider profile carries no user id.
var ErrNoUser = errors.New("auth: provider returned no user")

// Profile is what a provider reports about the user after a code exchange.
// It contains facts only, no decisions.
type Profile struct {
	ID          string
	Username    string
	DisplayName string
	ProfileURL  string
	Emails      []string
	Photos      []string
	// Raw is the decoded provider user document.
	Raw map[string]any
}

// Provider defines the contract an external OAuth provider implements.
// Implementations must not create sessions.
type Provider interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// AuthCodeURL returns the authorization URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for a user profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}
