package pokedex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/pokeapi"
)

func TestGenerationFromIDBoundaries(t *testing.T) {
	breakpoints := []struct {
		last int
		gen  int
	}{
		{151, 1}, {251, 2}, {386, 3}, {493, 4}, {649, 5},
		{721, 6}, {809, 7}, {905, 8}, {1025, 9},
	}

	first := 1
	for _, bp := range breakpoints {
		assert.Equal(t, bp.gen, GenerationFromID(first), "first id of generation %d", bp.gen)
		assert.Equal(t, bp.gen, GenerationFromID(bp.last), "last id of generation %d", bp.gen)
		first = bp.last + 1
	}

	for id := 1; id <= 151; id++ {
		require.Equal(t, 1, GenerationFromID(id))
	}

	assert.Equal(t, 0, GenerationFromID(0))
	assert.Equal(t, 0, GenerationFromID(1026))
	assert.Equal(t, 0, GenerationFromID(10008))
}

func TestGenerationRange(t *testing.T) {
	r, ok := GenerationRange(9)
	require.True(t, ok)
	assert.Equal(t, Range{906, 1025}, r)
	assert.True(t, r.Contains(906))
	assert.False(t, r.Contains(905))

	_, ok = GenerationRange(10)
	assert.False(t, ok)
	assert.Equal(t, 9, Generations())
}

func TestParseGenerationName(t *testing.T) {
	tests := map[string]int{
		"generation-i":    1,
		"generation-iv":   4,
		"generation-v":    5,
		"generation-viii": 8,
		"generation-ix":   9,
		"generation-x":    10,
		"gen-ii":          0,
		"generation-":     0,
		"generation-q":    0,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseGenerationName(name), name)
	}
}

func TestTypeColor(t *testing.T) {
	assert.Equal(t, "#F08030", TypeColor("fire"))
	assert.Equal(t, "#F08030", TypeColor("Fire"))
	assert.Equal(t, FallbackTypeColor, TypeColor("stellar"))

	_, ok := LocalTypeColor("unknown")
	assert.False(t, ok)
}

func ptr[T any](v T) *T { return &v }

func TestNormalizePokemon(t *testing.T) {
	moves := make([]pokeapi.MoveSlot, 30)
	for i := range moves {
		moves[i] = pokeapi.MoveSlot{Move: &pokeapi.NamedResource{Name: "move-" + string(rune('a'+i%26))}}
	}

	doc := &pokeapi.Pokemon{
		ID:     6,
		Name:   "charizard",
		Height: ptr(17),
		Weight: ptr(905),
		Types: []pokeapi.PokemonType{
			{Slot: 2, Type: &pokeapi.NamedResource{Name: "flying"}},
			{Slot: 1, Type: &pokeapi.NamedResource{Name: "fire"}},
		},
		Abilities: []pokeapi.AbilitySlot{
			{Ability: &pokeapi.NamedResource{Name: "blaze"}},
			{Ability: nil},
			{Ability: &pokeapi.NamedResource{Name: "solar-power"}, IsHidden: true},
		},
		Stats: []pokeapi.StatValue{
			{BaseStat: ptr(78), Effort: ptr(0), Stat: &pokeapi.NamedResource{Name: "hp"}},
			{BaseStat: nil, Stat: &pokeapi.NamedResource{Name: "speed"}},
			{BaseStat: ptr(1)},
		},
		Sprites: &pokeapi.Sprites{FrontDefault: ptr("https://img/6.png"), FrontShiny: ptr("")},
		Moves:   moves,
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NormalizePokemon(doc, 0, 0, now)

	assert.Equal(t, []string{"fire", "flying"}, p.Types)
	assert.Equal(t, []Ability{{Name: "blaze"}, {Name: "solar-power", IsHidden: true}}, p.Abilities)
	assert.Equal(t, []Stat{{Name: "hp", Base: 78}, {Name: "speed"}}, p.Stats)
	require.NotNil(t, p.Sprites.Default)
	assert.Nil(t, p.Sprites.Shiny)
	assert.Nil(t, p.Sprites.OfficialArtwork)
	assert.Len(t, p.Moves, DefaultMoveLimit)
	assert.Nil(t, p.BaseExperience)
	assert.Equal(t, 1, p.Generation)
	assert.Equal(t, now, p.CachedAt)
	assert.True(t, p.HasType("FIRE"))
	assert.False(t, p.HasType("water"))
}

func TestNormalizePokemonFormFallsBackToSpeciesGeneration(t *testing.T) {
	doc := &pokeapi.Pokemon{ID: 10250, Name: "wooper-paldea"}
	p := NormalizePokemon(doc, 9, 5, time.Now())
	assert.Equal(t, 9, p.Generation)
	assert.Empty(t, p.Types)
	assert.Equal(t, 0, p.Height)
}

func TestNormalizeSpecies(t *testing.T) {
	doc := &pokeapi.Species{
		ID:   25,
		Name: "pikachu",
		FlavorTextEntries: []pokeapi.FlavorTextEntry{
			{FlavorText: "ピカチュウ", Language: &pokeapi.NamedResource{Name: "ja"}},
			{FlavorText: "When several of\nthese POKéMON\fgather, their elec\u00ad\ntricity", Language: &pokeapi.NamedResource{Name: "en"}},
		},
		Genera: []pokeapi.Genus{
			{Genus: "Mouse Pokémon", Language: &pokeapi.NamedResource{Name: "en"}},
		},
		CaptureRate:    ptr(190),
		BaseHappiness:  ptr(50),
		GrowthRate:     &pokeapi.NamedResource{Name: "medium"},
		Habitat:        &pokeapi.NamedResource{Name: "forest"},
		EvolutionChain: &pokeapi.APIResource{URL: "https://pokeapi.co/api/v2/evolution-chain/10/"},
		Generation:     &pokeapi.NamedResource{Name: "generation-i"},
	}

	s := NormalizeSpecies(doc, 25, time.Now())

	require.NotNil(t, s.FlavorText)
	assert.Equal(t, "When several of these POKéMON gather, their electricity", *s.FlavorText)
	assert.Equal(t, "Mouse Pokémon", s.Genus)
	assert.Equal(t, 190, s.CaptureRate)
	assert.Equal(t, "medium", s.GrowthRate)
	require.NotNil(t, s.Habitat)
	assert.Equal(t, "forest", *s.Habitat)
	require.NotNil(t, s.EvolutionChainID)
	assert.Equal(t, 10, *s.EvolutionChainID)
	assert.Equal(t, 1, s.Generation)
}

func TestNormalizeSpeciesToleratesMissingFields(t *testing.T) {
	s := NormalizeSpecies(&pokeapi.Species{Name: "missingno"}, 10250, time.Now())
	assert.Equal(t, 10250, s.ID)
	assert.Nil(t, s.FlavorText)
	assert.Nil(t, s.Habitat)
	assert.Nil(t, s.EvolutionChainID)
	assert.Nil(t, s.BaseHappiness)
	assert.Equal(t, 0, s.Generation)
}

func TestResourceID(t *testing.T) {
	id, ok := ResourceID("https://pokeapi.co/api/v2/evolution-chain/67/")
	assert.True(t, ok)
	assert.Equal(t, 67, id)

	_, ok = ResourceID("https://pokeapi.co/api/v2/evolution-chain/")
	assert.False(t, ok)
	_, ok = ResourceID("")
	assert.False(t, ok)
}
