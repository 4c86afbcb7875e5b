// Package services – PokemonService
//
// This file implements the PokemonService, which sits between the HTTP
// handlers and the Resource Store Adapter. It validates client input and
// turns store outcome counts into service errors so handlers can map them to
// HTTP results consistently.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/observability"
	"github.com/tbourn/go-pokemon-api/internal/repo"
)

// PokemonRepo defines the repository contract required by PokemonService.
// repo.GormStore, repo.MongoStore and repo.Unavailable satisfy it.
type PokemonRepo interface {
	List(ctx context.Context) ([]domain.Pokemon, error)
	Get(ctx context.Context, id string) (*domain.Pokemon, error)
	Insert(ctx context.Context, f domain.PokemonFields) (*domain.Pokemon, error)
	Replace(ctx context.Context, id string, f domain.PokemonFields) (repo.ReplaceResult, error)
	Delete(ctx context.Context, id string) (repo.DeleteResult, error)
}

// PokemonService provides CRUD operations over the pokemon collection.
type PokemonService struct {
	// Repo is the store used by this service.
	Repo PokemonRepo

	// NameMaxLen bounds names by character count. Zero disables the check.
	NameMaxLen int
}

// NewPokemonService constructs a PokemonService with default limits.
func NewPokemonService(r PokemonRepo) *PokemonService {
	return &PokemonService{
		Repo:       r,
		NameMaxLen: 100,
	}
}

// List returns every record in insertion order.
func (s *PokemonService) List(ctx context.Context) (items []domain.Pokemon, err error) {
	ctx, span := observability.StartSpan(ctx, "PokemonService.List")
	defer func() { observability.EndSpan(span, err) }()

	items, err = s.Repo.List(ctx)
	span.SetAttributes(attribute.Int("pokemon.count", len(items)))
	return items, err
}

// Get returns one record. repo.ErrInvalidID and repo.ErrNotFound pass
// through unchanged.
func (s *PokemonService) Get(ctx context.Context, id string) (p *domain.Pokemon, err error) {
	ctx, span := observability.StartSpan(ctx, "PokemonService.Get", attribute.String("pokemon.id", id))
	defer func() { observability.EndSpan(span, err) }()

	return s.Repo.Get(ctx, id)
}

// Create validates f and stores it under a new id.
func (s *PokemonService) Create(ctx context.Context, f domain.PokemonFields) (p *domain.Pokemon, err error) {
	ctx, span := observability.StartSpan(ctx, "PokemonService.Create")
	defer func() { observability.EndSpan(span, err) }()

	if err = s.validate(f); err != nil {
		return nil, err
	}
	return s.Repo.Insert(ctx, f)
}

// Replace overwrites all fields of id. It returns ErrNotModified when the
// store modified nothing.
func (s *PokemonService) Replace(ctx context.Context, id string, f domain.PokemonFields) (err error) {
	ctx, span := observability.StartSpan(ctx, "PokemonService.Replace", attribute.String("pokemon.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if err = s.validate(f); err != nil {
		return err
	}
	res, err := s.Repo.Replace(ctx, id, f)
	if err != nil {
		return err
	}
	if res.Modified == 0 {
		return fmt.Errorf("%w: matched=%d", ErrNotModified, res.Matched)
	}
	return nil
}

// Delete removes id. It returns ErrNotDeleted when nothing was removed.
func (s *PokemonService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartSpan(ctx, "PokemonService.Delete", attribute.String("pokemon.id", id))
	defer func() { observability.EndSpan(span, err) }()

	res, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if res.Deleted == 0 {
		return ErrNotDeleted
	}
	return nil
}

// validate rejects a blank name or category and a name longer than
// NameMaxLen characters. Fields are stored exactly as sent.
func (s *PokemonService) validate(f domain.PokemonFields) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(f.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	case s.NameMaxLen > 0 && nameLen(f.Name) > s.NameMaxLen:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, s.NameMaxLen)
	}
	return nil
}

// nameLen counts characters in NFC form, so a decomposed "é" counts once.
func nameLen(name string) int {
	return utf8.RuneCountInString(norm.NFC.String(name))
}
