// Package domain defines the records the service works with: the pokemon
// entries persisted in the document store and the identity bound to a login
// session. Pokemon is mapped with GORM for the SQLite backend; the MongoDB
// backend keeps its own document shape in the repo package.
package domain

import "time"

// Pokemon is one entry of the pokemon collection.
//
// Fields:
//   - ID: server-assigned identifier (ObjectID hex on MongoDB, UUID on SQLite).
//     Assigned on insert and never reassigned.
//   - Name, Category, Number, WorldNumber: the replaceable payload. A replace
//     overwrites all four; nothing is merged.
//   - CreatedAt: insertion time, used to keep list order stable. Not exposed.
type Pokemon struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	Category    string    `json:"category"    gorm:"type:varchar(64);not null;index:idx_pokemon_category"`
	Number      int       `json:"number"      gorm:"not null"`
	WorldNumber int       `json:"worldNumber" gorm:"column:world_number;not null"`
	CreatedAt   time.Time `json:"-"           gorm:"index:idx_pokemon_created"`
}

// TableName returns the database table name for Pokemon.
func (Pokemon) TableName() string { return "pokemon" }

// PokemonFields is the client-supplied part of a Pokemon.
type PokemonFields struct {
	Name        string
	Category    string
	Number      int
	WorldNumber int
}

// Fields returns the replaceable payload of p.
func (p Pokemon) Fields() PokemonFields {
	return PokemonFields{
		Name:        p.Name,
		Category:    p.Category,
		Number:      p.Number,
		WorldNumber: p.WorldNumber,
	}
}

// WithFields returns a copy of p whose payload is fully replaced by f.
// ID and CreatedAt are kept.
func (p Pokemon) WithFields(f PokemonFields) Pokemon {
	p.Name = f.Name
	p.Category = f.Category
	p.Number = f.Number
	p.WorldNumber = f.WorldNumber
	return p
}
