// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger. It never logs
// bodies, masks credential-bearing headers and query parameters (the
// session cookie, X-API-Key, api_key, the OAuth code and state), and scrubs
// emails and UUIDs from whatever else it records.
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders and MaskQuery extend the built-in sets (matching is
// case-insensitive). Built-ins: Authorization, Cookie, Set-Cookie, X-API-Key
// headers and api_key, code, state query parameters.
type RedactOptions struct {
	MaskHeaders []string
	MaskQuery   []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
)

type redactor struct {
	headers map[string]struct{}
	query   map[string]struct{}
}

func newRedactor(opts RedactOptions) redactor {
	r := redactor{
		headers: lowerSet("authorization", "cookie", "set-cookie", "x-api-key"),
		query:   lowerSet("api_key", "code", "state"),
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.headers[h] = struct{}{}
		}
	}
	for _, q := range opts.MaskQuery {
		if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
			r.query[q] = struct{}{}
		}
	}
	return r
}

// scrub removes ids and emails from free text.
func (redactor) scrub(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	return emailRE.ReplaceAllString(s, "[REDACTED:email]")
}

// headerMap renders request headers with masking applied.
func (r redactor) headerMap(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.headers[strings.ToLower(k)]; ok {
			out[k] = redacted
			continue
		}
		out[k] = r.scrub(strings.Join(vv, ", "))
	}
	return out
}

// queryString masks sensitive parameters and scrubs the rest. An
// unparseable query is scrubbed as plain text.
func (r redactor) queryString(raw string) string {
	if raw == "" {
		return ""
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return r.scrub(truncate(raw, maxQueryLogLength))
	}
	for k, vv := range vals {
		_, mask := r.query[strings.ToLower(k)]
		for i := range vv {
			if mask {
				vv[i] = redacted
			} else {
				vv[i] = r.scrub(vv[i])
			}
		}
	}
	return truncate(vals.Encode(), maxQueryLogLength)
}

// RedactingLogger returns a Gin middleware that attaches a request-scoped
// logger and emits one structured access log per request. Severity is INFO,
// WARN for 4xx, ERROR for 5xx or when handlers recorded gin errors.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	red := newRedactor(opts)

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := red.queryString(c.Request.URL.RawQuery)
		safeHeaders := red.headerMap(c.Request.Header)

		rid := RequestIDFrom(c)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		setLogger(c, log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger())

		c.Next()

		status := c.Writer.Status()
		lg := LoggerFrom(c)
		ev := lg.Info()
		switch {
		case len(c.Errors) > 0 || status >= 500:
			ev = lg.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", c.Errors.String())
			}
		case status >= 400:
			ev = lg.Warn()
		}

		ev.
			Str("query", safeQuery).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

func lowerSet(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[strings.ToLower(v)] = struct{}{}
	}
	return m
}
