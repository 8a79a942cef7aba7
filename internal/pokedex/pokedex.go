// Package pokedex holds the domain records and rules shared by the fetcher,
// the cache store and the query layer: generation ranges, type colors and the
// conversion from loosely typed upstream payloads into strict records.
package pokedex

import "time"

// Pokemon is a normalized, cached Pokémon record.
type Pokemon struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Height         int       `json:"height"`
	Weight         int       `json:"weight"`
	BaseExperience *int      `json:"baseExperience,omitempty"`
	Types          []string  `json:"types"`
	Abilities      []Ability `json:"abilities"`
	Stats          []Stat    `json:"stats"`
	Sprites        Sprites   `json:"sprites"`
	Moves          []string  `json:"moves"`
	Generation     int       `json:"generation"`
	CachedAt       time.Time `json:"cachedAt"`
}

type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

type Stat struct {
	Name   string `json:"name"`
	Base   int    `json:"base"`
	Effort int    `json:"effort"`
}

// Sprites holds optional image URLs.
type Sprites struct {
	Default         *string `json:"default,omitempty"`
	Shiny           *string `json:"shiny,omitempty"`
	OfficialArtwork *string `json:"officialArtwork,omitempty"`
}

// HasType reports whether p has typeName, ignoring case.
func (p *Pokemon) HasType(typeName string) bool {
	for _, t := range p.Types {
		if equalFold(t, typeName) {
			return true
		}
	}
	return false
}

// Species is a normalized species record keyed by the Pokémon id it was cached for.
type Species struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	FlavorText       *string   `json:"flavorText,omitempty"`
	Genus            string    `json:"genus"`
	CaptureRate      int       `json:"captureRate"`
	BaseHappiness    *int      `json:"baseHappiness,omitempty"`
	GrowthRate       string    `json:"growthRate"`
	Habitat          *string   `json:"habitat,omitempty"`
	EvolutionChainID *int      `json:"evolutionChainId,omitempty"`
	Generation       int       `json:"generation"`
	CachedAt         time.Time `json:"cachedAt"`
}

// Type is a type name with its display color.
type Type struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
