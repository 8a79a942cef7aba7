package repository

import (
	"context"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
)

// PokemonRepository reads and writes cached Pokémon records.
type PokemonRepository interface {
	// Get returns the record for id or ErrPokemonNotFound.
	Get(ctx context.Context, id int) (*entities.Pokemon, error)
	// Exists reports whether id is cached.
	Exists(ctx context.Context, id int) (bool, error)
	// Save inserts or replaces the record keyed by its ID.
	Save(ctx context.Context, p *entities.Pokemon) error
	// All returns every cached record ordered by id.
	All(ctx context.Context) ([]entities.Pokemon, error)
	// ByGeneration returns records whose generation column equals gen, ordered by id.
	ByGeneration(ctx context.Context, gen int) ([]entities.Pokemon, error)
	// ByIDRange returns records with start <= id <= end, ordered by id.
	ByIDRange(ctx context.Context, start, end int) ([]entities.Pokemon, error)
	// ByIDs returns the cached subset of ids in unspecified order.
	ByIDs(ctx context.Context, ids []int) ([]entities.Pokemon, error)
	// Count returns the number of cached records.
	Count(ctx context.Context) (int64, error)
}

// SpeciesRepository reads and writes cached species records.
type SpeciesRepository interface {
	Get(ctx context.Context, id int) (*entities.Species, error)
	Save(ctx context.Context, s *entities.Species) error
}
