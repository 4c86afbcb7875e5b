// Command server runs the Pokemon API.
//
// @title                      Pokemon API
// @version                    1.0
// @description                CRUD over the pokemon collection, gated by a GitHub login session or the X-API-Key sentinel.
// @BasePath                   /
// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       X-API-Key
// @description                Sentinel API key. A GitHub login session is accepted instead.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-pokemon-api/internal/auth"
	"github.com/tbourn/go-pokemon-api/internal/config"
	httpapi "github.com/tbourn/go-pokemon-api/internal/http"
	"github.com/tbourn/go-pokemon-api/internal/observability"
	"github.com/tbourn/go-pokemon-api/internal/repo"
	"github.com/tbourn/go-pokemon-api/internal/session"
	"github.com/tbourn/go-pokemon-api/internal/sysutil"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	configureLogging(cfg)
	if cfg.Session.Ephemeral {
		log.Warn().Msg("SESSION_SECRET not set: using a random per-process secret, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	store := openStore(ctx, cfg.Database)
	sessions, closeSessions := openSessions(ctx, cfg.Session)
	provider := newProvider(cfg.GitHub)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Store:    store,
		Sessions: sessions,
		Codec: session.NewCodec(cfg.Session.Secret, cfg.Session.TTL, session.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		Provider: provider,
	}, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
	if err := closeSessions(); err != nil {
		log.Error().Err(err).Msg("closing session store")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("server stopped")
}

func configureLogging(cfg config.Config) {
	service := cfg.OTEL.ServiceName
	if service == "" {
		service = "go-pokemon-api"
	}
	sysutil.ConfigureGlobalLogger(cfg.LogLevel, cfg.LogPretty, service)
}

// openStore connects to the configured database. A connection failure is
// logged and the Unavailable store is returned so the port still binds.
func openStore(ctx context.Context, cfg config.DatabaseConfig) repo.Store {
	store, err := repo.Open(ctx, cfg)
	switch {
	case errors.Is(err, repo.ErrUnsupportedURI):
		log.Fatal().Err(err).Msg("invalid MONGODB_URI")
	case err != nil:
		log.Error().Err(err).Msg("database unavailable, serving with CRUD disabled")
		return repo.Unavailable{Cause: err}
	}
	log.Info().Str("database", cfg.Name).Str("collection", cfg.Collection).Msg("database connected")
	return store
}

// openSessions returns the Redis store when REDIS_ADDR is set and the
// in-memory store otherwise or when Redis cannot be reached.
func openSessions(ctx context.Context, cfg config.SessionConfig) (session.Store, func() error) {
	noop := func() error { return nil }
	if cfg.RedisAddr == "" {
		log.Info().Msg("session store: memory")
		return session.NewMemoryStore(), noop
	}
	client, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Error().Err(err).Msg("redis unavailable, falling back to in-memory sessions")
		return session.NewMemoryStore(), noop
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("session store: redis")
	return session.NewRedisStore(client), client.Close
}

// newProvider builds the GitHub provider, or nil when credentials are absent.
func newProvider(cfg config.GitHubConfig) auth.Provider {
	if !cfg.Enabled() {
		log.Warn().Msg("GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set: /login is disabled")
		return nil
	}
	gh, err := auth.NewGitHub(auth.GitHubOptions{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		CallbackURL:  cfg.CallbackURL,
	})
	if err != nil {
		log.Error().Err(err).Msg("github provider disabled")
		return nil
	}
	return gh
}
