// Package repo implements the Resource Store Adapter: a thin persistence
// layer for pokemon records with two interchangeable backends. This file
// contains database bootstrapping helpers for SQLite (pure Go driver), the
// schema migration, and the scheme-based Open dispatcher.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-pokemon-api/internal/config"
	"github.com/tbourn/go-pokemon-api/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	// Spans for every query; a no-op until a tracer provider is installed.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the pokemon table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Pokemon{})
}

// Open connects to the store named by cfg.URI and returns the matching
// backend:
//
//	mongodb://…, mongodb+srv://…  → MongoStore
//	sqlite://<path>, file:<dsn>    → GormStore (migrated)
//
// Connection problems are returned as errors; callers decide whether to
// fall back to Unavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	uri := strings.TrimSpace(cfg.URI)
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return OpenMongo(ctx, cfg)

	case strings.HasPrefix(uri, "sqlite://"), strings.HasPrefix(uri, "file:"):
		path := strings.TrimPrefix(uri, "sqlite://")
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", path, err)
		}
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return NewGormStore(db), nil

	case uri == "":
		return nil, fmt.Errorf("%w: empty connection string", ErrUnsupportedURI)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURI, redactURI(uri))
	}
}

// redactURI keeps the scheme and host of a connection string for error
// messages and drops credentials.
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		if i := strings.IndexByte(uri, ':'); i > 0 {
			return uri[:i] + ":…"
		}
		return "…"
	}
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
