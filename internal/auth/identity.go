package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/sysutil"
)

// DefaultDisplayName is used when a profile carries no usable name.
const DefaultDisplayName = "GitHub User"

// NewIdentity normalizes a provider profile into the session identity.
// The display name falls back to the username, then the raw profile name,
// then DefaultDisplayName.
func NewIdentity(provider string, p *Profile) (domain.Identity, error) {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return domain.Identity{}, ErrNoUser
	}
	var rawName string
	if v, ok := p.Raw["name"].(string); ok {
		rawName = v
	}
	if provider == "" {
		return domain.Identity{}, fmt.Errorf("auth: identity for user %s has no provider", p.ID)
	}
	return domain.Identity{
		Provider:    provider,
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: strings.TrimSpace(sysutil.FirstNonEmpty(p.DisplayName, p.Username, rawName, DefaultDisplayName)),
		ProfileURL:  p.ProfileURL,
		Emails:      p.Emails,
		Photos:      p.Photos,
	}, nil
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	if ctx == nil {
		return domain.Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
