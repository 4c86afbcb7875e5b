// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the login session. Sessions() reads the signed session
// cookie, loads the session from the store and exposes it to downstream
// handlers through the Gin context and the request context.Context. It never
// rejects a request: every failure leaves the request anonymous.
package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pokemon-api/internal/auth"
	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/session"
)

const (
	sessionKey  = "session"
	identityKey = "identity"

	// slidingGranularity bounds store writes for sliding sessions.
	slidingGranularity = time.Minute
)

// SessionOptions configures Sessions.
type SessionOptions struct {
	TTL     time.Duration
	Sliding bool
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Sessions returns the session resolver middleware.
//
// With Sliding set, each resolved request pushes ExpiresAt to now+TTL
// (written at most once per minute) and re-issues the cookie.
func Sessions(store session.Store, codec *session.Codec, opts SessionOptions) gin.HandlerFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		id, err := codec.Read(c.Request)
		if err != nil {
			if errors.Is(err, session.ErrNoCookie) {
				sessionLookups.WithLabelValues("miss").Inc()
			} else {
				sessionLookups.WithLabelValues("invalid").Inc()
				LoggerFrom(c).Debug().Err(err).Msg("session cookie rejected")
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		s, err := store.Get(ctx, id)
		switch {
		case errors.Is(err, session.ErrNotFound):
			sessionLookups.WithLabelValues("miss").Inc()
			c.Next()
			return
		case err != nil:
			sessionLookups.WithLabelValues("error").Inc()
			LoggerFrom(c).Warn().Err(err).Msg("session store lookup failed")
			c.Next()
			return
		}

		t := now()
		if s.Expired(t) {
			sessionLookups.WithLabelValues("miss").Inc()
			_ = store.Delete(ctx, s.ID)
			c.Next()
			return
		}
		sessionLookups.WithLabelValues("hit").Inc()

		if opts.Sliding && opts.TTL > 0 {
			if next := t.Add(opts.TTL); next.Sub(s.ExpiresAt) >= slidingGranularity {
				s.ExpiresAt = next
				if err := store.Update(ctx, *s); err != nil {
					LoggerFrom(c).Warn().Err(err).Msg("session refresh failed")
				} else if err := codec.SetCookie(c.Writer, s.ID, s.ExpiresAt); err != nil {
					LoggerFrom(c).Warn().Err(err).Msg("session cookie refresh failed")
				}
			}
		}

		c.Set(sessionKey, s)
		c.Set(identityKey, s.Identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, s.Identity))
		setLogger(c, LoggerFrom(c).With().
			Str("user_id", s.Identity.ID).
			Str("username", s.Identity.Username).
			Logger())

		c.Next()
	}
}

// SessionFrom returns the session resolved by Sessions.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

// IdentityFrom returns the identity resolved by Sessions.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id, true
		}
	}
	return auth.IdentityFrom(c.Request.Context())
}
