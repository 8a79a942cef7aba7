package pokedex

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/pokedex-go/internal/pokeapi"
)

// DefaultMoveLimit caps the number of moves kept per Pokémon.
const DefaultMoveLimit = 20

const englishLanguage = "en"

// NormalizePokemon converts an upstream document into a record. speciesGeneration
// is used when the id falls outside the generation table. Missing optional
// fields yield zero values or nil pointers rather than an error.
func NormalizePokemon(doc *pokeapi.Pokemon, speciesGeneration, moveLimit int, now time.Time) Pokemon {
	if moveLimit <= 0 {
		moveLimit = DefaultMoveLimit
	}

	p := Pokemon{
		ID:             doc.ID,
		Name:           doc.Name,
		Height:         derefInt(doc.Height),
		Weight:         derefInt(doc.Weight),
		BaseExperience: doc.BaseExperience,
		Types:          make([]string, 0, len(doc.Types)),
		Abilities:      make([]Ability, 0, len(doc.Abilities)),
		Stats:          make([]Stat, 0, len(doc.Stats)),
		Moves:          make([]string, 0, min(len(doc.Moves), moveLimit)),
		CachedAt:       now,
	}

	types := slices.Clone(doc.Types)
	slices.SortStableFunc(types, func(a, b pokeapi.PokemonType) int { return a.Slot - b.Slot })
	for _, t := range types {
		if t.Type != nil && t.Type.Name != "" {
			p.Types = append(p.Types, t.Type.Name)
		}
	}

	for _, a := range doc.Abilities {
		if a.Ability == nil || a.Ability.Name == "" {
			continue
		}
		p.Abilities = append(p.Abilities, Ability{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}

	for _, s := range doc.Stats {
		if s.Stat == nil || s.Stat.Name == "" {
			continue
		}
		p.Stats = append(p.Stats, Stat{
			Name:   s.Stat.Name,
			Base:   derefInt(s.BaseStat),
			Effort: derefInt(s.Effort),
		})
	}

	if doc.Sprites != nil {
		p.Sprites.Default = nonEmpty(doc.Sprites.FrontDefault)
		p.Sprites.Shiny = nonEmpty(doc.Sprites.FrontShiny)
		if doc.Sprites.Other != nil && doc.Sprites.Other.OfficialArtwork != nil {
			p.Sprites.OfficialArtwork = nonEmpty(doc.Sprites.Other.OfficialArtwork.FrontDefault)
		}
	}

	for _, m := range doc.Moves {
		if len(p.Moves) == moveLimit {
			break
		}
		if m.Move != nil && m.Move.Name != "" {
			p.Moves = append(p.Moves, m.Move.Name)
		}
	}

	p.Generation = GenerationFromID(doc.ID)
	if p.Generation == 0 {
		p.Generation = speciesGeneration
	}

	return p
}

// NormalizeSpecies converts an upstream species document into a record stored under id.
func NormalizeSpecies(doc *pokeapi.Species, id int, now time.Time) Species {
	s := Species{
		ID:            id,
		Name:          doc.Name,
		CaptureRate:   derefInt(doc.CaptureRate),
		BaseHappiness: doc.BaseHappiness,
		CachedAt:      now,
	}

	for _, entry := range doc.FlavorTextEntries {
		if entry.Language != nil && entry.Language.Name == englishLanguage {
			if text := CleanFlavorText(entry.FlavorText); text != "" {
				s.FlavorText = &text
				break
			}
		}
	}

	for _, g := range doc.Genera {
		if g.Language != nil && g.Language.Name == englishLanguage {
			s.Genus = g.Genus
			break
		}
	}

	if doc.GrowthRate != nil {
		s.GrowthRate = doc.GrowthRate.Name
	}
	if doc.Habitat != nil && doc.Habitat.Name != "" {
		habitat := doc.Habitat.Name
		s.Habitat = &habitat
	}
	if doc.EvolutionChain != nil {
		if chainID, ok := ResourceID(doc.EvolutionChain.URL); ok {
			s.EvolutionChainID = &chainID
		}
	}
	s.Generation = SpeciesGeneration(doc)

	return s
}

// SpeciesGeneration returns the generation declared by a species document, or 0.
func SpeciesGeneration(doc *pokeapi.Species) int {
	if doc == nil || doc.Generation == nil {
		return 0
	}
	return ParseGenerationName(doc.Generation.Name)
}

// CleanFlavorText joins soft-hyphenated line breaks and collapses all
// remaining whitespace into single spaces.
func CleanFlavorText(text string) string {
	text = strings.ReplaceAll(text, "\u00ad\n", "")
	return strings.Join(strings.Fields(text), " ")
}

// ResourceID extracts the trailing numeric id from a PokéAPI resource URL
// such as ".../evolution-chain/10/".
func ResourceID(url string) (int, bool) {
	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
