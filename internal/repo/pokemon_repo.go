// Package repo implements the Resource Store Adapter. This file provides the
// GORM-backed Store used with SQLite connection strings.
//
// All methods are context-aware. Identifiers are UUIDs; anything uuid.Parse
// rejects is reported as ErrInvalidID before the database is touched.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pokemon-api/internal/domain"
)

// GormStore persists pokemon through a *gorm.DB handle.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore wraps db. The schema must already be migrated (see AutoMigrate).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// List returns all records ordered by insertion time. It returns an empty
// slice when the table is empty.
func (s *GormStore) List(ctx context.Context) ([]domain.Pokemon, error) {
	out := []domain.Pokemon{}
	err := s.DB.WithContext(ctx).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// Get fetches a single record by id.
func (s *GormStore) Get(ctx context.Context, id string) (*domain.Pokemon, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	var p domain.Pokemon
	err = s.DB.WithContext(ctx).
		Where("id = ?", key).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert creates a new row with a random UUID and a UTC creation time.
func (s *GormStore) Insert(ctx context.Context, f domain.PokemonFields) (*domain.Pokemon, error) {
	p := domain.Pokemon{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}.WithFields(f)
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Replace overwrites all payload columns of id inside a transaction.
//
// Modified counts only rows whose payload actually changed, so replacing a
// record with identical values reports Matched=1, Modified=0, the same as a
// document store would.
func (s *GormStore) Replace(ctx context.Context, id string, f domain.PokemonFields) (ReplaceResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return ReplaceResult{}, err
	}

	var res ReplaceResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Pokemon
		if err := tx.Where("id = ?", key).First(&cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		res.Matched = 1
		if cur.Fields() == f {
			return nil
		}

		// Map form writes zero values too; struct form would skip them.
		upd := tx.Model(&domain.Pokemon{}).
			Where("id = ?", key).
			Updates(map[string]any{
				"name":         f.Name,
				"category":     f.Category,
				"number":       f.Number,
				"world_number": f.WorldNumber,
			})
		if upd.Error != nil {
			return upd.Error
		}
		res.Modified = upd.RowsAffected
		return nil
	})
	if err != nil {
		return ReplaceResult{}, err
	}
	return res, nil
}

// Delete hard-deletes id and reports the affected row count.
func (s *GormStore) Delete(ctx context.Context, id string) (DeleteResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return DeleteResult{}, err
	}
	del := s.DB.WithContext(ctx).
		Where("id = ?", key).
		Delete(&domain.Pokemon{})
	if del.Error != nil {
		return DeleteResult{}, del.Error
	}
	return DeleteResult{Deleted: del.RowsAffected}, nil
}

// Ping checks the underlying connection pool.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// parseUUID normalizes id to its canonical string form.
func parseUUID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}
