// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, sessions and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-pokemon-api/docs"
	"github.com/tbourn/go-pokemon-api/internal/auth"
	"github.com/tbourn/go-pokemon-api/internal/config"
	"github.com/tbourn/go-pokemon-api/internal/http/handlers"
	"github.com/tbourn/go-pokemon-api/internal/http/middleware"
	"github.com/tbourn/go-pokemon-api/internal/repo"
	"github.com/tbourn/go-pokemon-api/internal/services"
	"github.com/tbourn/go-pokemon-api/internal/session"
)

// Deps carries the collaborators opened by main.
type Deps struct {
	// Store is the pokemon store; repo.Unavailable when the database could
	// not be reached.
	Store repo.Store
	// Sessions and Codec back the login session.
	Sessions session.Store
	Codec    *session.Codec
	// Provider is the OAuth provider; nil disables /login.
	Provider auth.Provider
}

const healthPingTimeout = 2 * time.Second

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with secret scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (not on /metrics)
//  8. CORS and Security headers
//  9. Sessions: resolve the login identity
//  10. Rate limiter (per user/IP, after Sessions so users get their own bucket)
//
// /users is always behind the auth gate. /api-docs is public unless
// cfg.DocsRequireAuth is set: the login callback redirects failures to
// /api-docs?error=..., which an anonymous browser must be able to open.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(handlers.Templates())

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:     cfg.Security.EnableHSTS,
		HSTSMaxAge:     cfg.Security.HSTSMaxAge,
		NoStore:        true,
		CacheablePaths: []string{"/api-docs/"},
		EnablePolicy:   true,
	}))

	// 9) Login session
	r.Use(middleware.Sessions(deps.Sessions, deps.Codec, middleware.SessionOptions{
		TTL:     cfg.Session.TTL,
		Sliding: cfg.Session.Sliding,
	}))

	// 10) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP(), "/health", "/metrics")
	r.Use(rl.Handler())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", health(deps.Store))

	gate := middleware.RequireAuth(middleware.GateOptions{APIKey: cfg.DocsAPIKey})

	// Browser pages and login flow
	a := handlers.NewAuth(handlers.AuthOptions{
		Provider: deps.Provider,
		Store:    deps.Sessions,
		Codec:    deps.Codec,
		TTL:      cfg.Session.TTL,
	})
	r.GET("/", handlers.Home)
	r.GET("/api-test", handlers.APITest)
	r.GET("/test-auth", handlers.TestAuth)
	r.GET("/login", a.Login)
	r.GET("/github/callback", a.Callback)
	r.GET("/logout", a.Logout)

	// API docs
	if cfg.SwaggerEnabled {
		docs := r.Group("/api-docs")
		if cfg.DocsRequireAuth {
			docs.Use(gate)
		}
		docs.GET("", func(c *gin.Context) {
			target := "/api-docs/index.html"
			if q := c.Request.URL.RawQuery; q != "" {
				target += "?" + q
			}
			c.Redirect(http.StatusFound, target)
		})
		docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.DocExpansion("list"),
			ginSwagger.PersistAuthorization(true),
		))
	}

	// Dependency injection: handlers ← service ← store
	h := handlers.New(services.NewPokemonService(deps.Store))

	users := r.Group("/users", gate)
	{
		users.GET("", h.ListPokemon)
		users.POST("", h.CreatePokemon)
		users.GET("/:id", h.GetPokemon)
		users.PUT("/:id", h.ReplacePokemon)
		users.DELETE("/:id", h.DeletePokemon)
	}
}

// health reports liveness plus a best-effort database ping. It always
// answers 200 so the process stays up while the database is away.
func health(store repo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		db := "up"
		if err := store.Ping(ctx); err != nil {
			db = "down"
			middleware.LoggerFrom(c).Warn().Err(err).Msg("database ping failed")
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": db})
	}
}

// corsMiddleware returns the CORS handlers for the configured origins.
// With no origins every origin is allowed without credentials; with an
// allowlist the Origin is echoed and cookies are allowed.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderAPIKey}
	methods := []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	if len(origins) == 0 {
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins:  true,
				AllowMethods:     methods,
				AllowHeaders:     allowHeaders,
				ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Location"},
				AllowCredentials: false, // must remain false with AllowAllOrigins
				MaxAge:           12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
