package repository

import (
	"gorm.io/datatypes"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

// PokemonEntity converts a domain record into its GORM entity.
func PokemonEntity(p *pokedex.Pokemon) *entities.Pokemon {
	return &entities.Pokemon{
		ID:             p.ID,
		Name:           p.Name,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
		Types:          datatypes.NewJSONSlice(nonNil(p.Types)),
		Abilities:      datatypes.NewJSONSlice(nonNil(p.Abilities)),
		Stats:          datatypes.NewJSONSlice(nonNil(p.Stats)),
		Sprites:        datatypes.NewJSONType(p.Sprites),
		Moves:          datatypes.NewJSONSlice(nonNil(p.Moves)),
		Generation:     p.Generation,
		CachedAt:       p.CachedAt,
	}
}

// PokemonRecord converts an entity back into a domain record.
func PokemonRecord(e *entities.Pokemon) pokedex.Pokemon {
	return pokedex.Pokemon{
		ID:             e.ID,
		Name:           e.Name,
		Height:         e.Height,
		Weight:         e.Weight,
		BaseExperience: e.BaseExperience,
		Types:          nonNil([]string(e.Types)),
		Abilities:      nonNil([]pokedex.Ability(e.Abilities)),
		Stats:          nonNil([]pokedex.Stat(e.Stats)),
		Sprites:        e.Sprites.Data(),
		Moves:          nonNil([]string(e.Moves)),
		Generation:     e.Generation,
		CachedAt:       e.CachedAt,
	}
}

// PokemonRecords converts a slice of entities preserving order.
func PokemonRecords(list []entities.Pokemon) []pokedex.Pokemon {
	out := make([]pokedex.Pokemon, 0, len(list))
	for i := range list {
		out = append(out, PokemonRecord(&list[i]))
	}
	return out
}

// SpeciesEntity converts a domain species record into its GORM entity.
func SpeciesEntity(s *pokedex.Species) *entities.Species {
	return &entities.Species{
		ID:               s.ID,
		Name:             s.Name,
		FlavorText:       s.FlavorText,
		Genus:            s.Genus,
		CaptureRate:      s.CaptureRate,
		BaseHappiness:    s.BaseHappiness,
		GrowthRate:       s.GrowthRate,
		Habitat:          s.Habitat,
		EvolutionChainID: s.EvolutionChainID,
		Generation:       s.Generation,
		CachedAt:         s.CachedAt,
	}
}

// SpeciesRecord converts an entity back into a domain species record.
func SpeciesRecord(e *entities.Species) pokedex.Species {
	return pokedex.Species{
		ID:               e.ID,
		Name:             e.Name,
		FlavorText:       e.FlavorText,
		Genus:            e.Genus,
		CaptureRate:      e.CaptureRate,
		BaseHappiness:    e.BaseHappiness,
		GrowthRate:       e.GrowthRate,
		Habitat:          e.Habitat,
		EvolutionChainID: e.EvolutionChainID,
		Generation:       e.Generation,
		CachedAt:         e.CachedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
