package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
)

// Store bundles the repositories sharing one database handle.
type Store struct {
	db        *gorm.DB
	Pokemon   PokemonRepository
	Species   SpeciesRepository
	Types     TypeRepository
	Favorites FavoriteRepository
	Profiles  ProfileRepository
}

// NewStore creates repositories bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Pokemon:   NewPokemonRepository(db),
		Species:   NewSpeciesRepository(db),
		Types:     NewTypeRepository(db),
		Favorites: NewFavoriteRepository(db),
		Profiles:  NewProfileRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// SaveCatalogEntry upserts a Pokémon and its species atomically.
func (s *Store) SaveCatalogEntry(ctx context.Context, p *entities.Pokemon, sp *entities.Species) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Pokemon.Save(ctx, p); err != nil {
			return err
		}
		return tx.Species.Save(ctx, sp)
	})
}
