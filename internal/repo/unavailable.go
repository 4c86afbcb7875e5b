package repo

import (
	"context"
	"fmt"

	"github.com/tbourn/go-pokemon-api/internal/domain"
)

// Unavailable is the Store used when the database could not be reached at
// startup. The service still binds its port; every call fails with
// ErrUnavailable wrapping Cause.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Cause)
}

func (u Unavailable) List(context.Context) ([]domain.Pokemon, error) { return nil, u.err() }

func (u Unavailable) Get(context.Context, string) (*domain.Pokemon, error) { return nil, u.err() }

func (u Unavailable) Insert(context.Context, domain.PokemonFields) (*domain.Pokemon, error) {
	return nil, u.err()
}

func (u Unavailable) Replace(context.Context, string, domain.PokemonFields) (ReplaceResult, error) {
	return ReplaceResult{}, u.err()
}

func (u Unavailable) Delete(context.Context, string) (DeleteResult, error) {
	return DeleteResult{}, u.err()
}

func (u Unavailable) Ping(context.Context) error { return u.err() }

func (Unavailable) Close(context.Context) error { return nil }

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MongoStore)(nil)
	_ Store = Unavailable{}
)
