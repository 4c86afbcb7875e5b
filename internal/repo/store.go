// Package repo implements the Resource Store Adapter. This file declares the
// backend-neutral Store contract, its result types, and the error values
// every backend maps its driver errors onto.
//
// Error semantics:
//   - An identifier that cannot be parsed into the backend's native id type
//     yields ErrInvalidID (never a driver error, never a panic).
//   - Get on a missing record yields ErrNotFound.
//   - Replace and Delete never report a missing record as an error; they
//     report zero matched/modified/deleted counts and let callers decide.
//   - Any other driver failure is returned wrapped.
package repo

import (
	"context"
	"errors"

	"github.com/tbourn/go-pokemon-api/internal/domain"
)

var (
	// ErrInvalidID is returned when an id is not a valid native identifier.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable is returned by every call on a store that could not be
	// reached at startup.
	ErrUnavailable = errors.New("database unavailable")

	// ErrUnsupportedURI is returned by Open for unknown connection strings.
	ErrUnsupportedURI = errors.New("unsupported database connection string")
)

// ReplaceResult reports what a full-document replace did.
type ReplaceResult struct {
	Matched  int64
	Modified int64
}

// DeleteResult reports how many records a delete removed.
type DeleteResult struct {
	Deleted int64
}

// Store is the persistence contract for the pokemon collection. Every
// method issues at most one logical database operation and honors ctx.
type Store interface {
	// List returns every record in insertion order. Never nil.
	List(ctx context.Context) ([]domain.Pokemon, error)
	// Get returns the record with id, ErrNotFound or ErrInvalidID.
	Get(ctx context.Context, id string) (*domain.Pokemon, error)
	// Insert stores f under a freshly assigned id and returns the record.
	Insert(ctx context.Context, f domain.PokemonFields) (*domain.Pokemon, error)
	// Replace overwrites the payload of id with f.
	Replace(ctx context.Context, id string, f domain.PokemonFields) (ReplaceResult, error)
	// Delete removes id.
	Delete(ctx context.Context, id string) (DeleteResult, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
