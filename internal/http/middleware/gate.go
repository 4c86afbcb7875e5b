// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the auth gate. A request passes when Sessions
// resolved an identity, or when it presents the configured API key through
// the X-API-Key header or the api_key query parameter.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderAPIKey carries the API key.
	HeaderAPIKey = "X-API-Key"
	// QueryAPIKey is the query parameter alternative to HeaderAPIKey.
	QueryAPIKey = "api_key"
)

// Decision reasons reported in logs and auth_decisions_total.
const (
	ReasonSession = "session"
	ReasonAPIKey  = "api-key"
	ReasonNone    = "none"
)

// GateOptions configures RequireAuth.
type GateOptions struct {
	// APIKey is the accepted key. Empty disables key access.
	APIKey string
	// LoginURL is advertised in the 401 body.
	LoginURL string
}

// UnauthorizedBody is the 401 payload returned by RequireAuth.
type UnauthorizedBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	LoginURL string `json:"loginUrl"`
}

// RequireAuth returns the gate middleware. Denied requests are aborted with
// 401 and an UnauthorizedBody.
func RequireAuth(opts GateOptions) gin.HandlerFunc {
	if opts.LoginURL == "" {
		opts.LoginURL = "/login"
	}
	key := []byte(opts.APIKey)

	return func(c *gin.Context) {
		reason, ok := decide(c, key)
		lg := LoggerFrom(c)

		if ok {
			authDecisions.WithLabelValues("granted", reason).Inc()
			lg.Debug().Str("reason", reason).Msg("access granted")
			c.Next()
			return
		}

		authDecisions.WithLabelValues("denied", reason).Inc()
		lg.Info().Str("client_ip", c.ClientIP()).Msg("access denied")
		c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedBody{
			Error:    "Authentication required",
			Message:  "Please log in or provide API key",
			LoginURL: opts.LoginURL,
		})
	}
}

// decide applies the gate rule. A session wins over a key.
func decide(c *gin.Context, key []byte) (string, bool) {
	if id, ok := IdentityFrom(c); ok && id.ID != "" {
		return ReasonSession, true
	}
	if len(key) == 0 {
		return ReasonNone, false
	}
	supplied := c.GetHeader(HeaderAPIKey)
	if supplied == "" {
		supplied = c.Query(QueryAPIKey)
	}
	if supplied != "" && subtle.ConstantTimeCompare([]byte(supplied), key) == 1 {
		return ReasonAPIKey, true
	}
	return ReasonNone, false
}
