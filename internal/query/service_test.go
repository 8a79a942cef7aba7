package query

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/datastore"
	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	log := logger.NewSlogLogger(nil, logger.LogLevelError, nil)
	m, err := datastore.NewSQLiteManager(filepath.Join(t.TempDir(), "cache.db"), log)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	t.Cleanup(func() { _ = m.Close() })

	store := datastore.NewStore(m)
	return NewService(store, time.Minute, log), store
}

func seedPokemon(t *testing.T, store *repository.Store, id int, name string, types ...string) {
	t.Helper()
	p := pokedex.Pokemon{
		ID:         id,
		Name:       name,
		Types:      types,
		Generation: pokedex.GenerationFromID(id),
		CachedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.Pokemon.Save(t.Context(), repository.PokemonEntity(&p)))
}

func seedCatalog(t *testing.T, store *repository.Store) {
	t.Helper()
	seedPokemon(t, store, 4, "charmander", "fire")
	seedPokemon(t, store, 1, "bulbasaur", "grass", "poison")
	seedPokemon(t, store, 25, "pikachu", "electric")
	seedPokemon(t, store, 125, "electabuzz", "electric")
	seedPokemon(t, store, 155, "cyndaquil", "fire")
	seedPokemon(t, store, 250, "ho-oh", "fire", "flying")
	seedPokemon(t, store, 906, "sprigatito", "grass")
}

func ids(list []pokedex.Pokemon) []int {
	out := make([]int, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestListDefaultsSortedByID(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)

	page, err := svc.List(t.Context(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 25, 125, 155, 250, 906}, ids(page.Pokemon))
	assert.Equal(t, 7, page.Total)
	assert.False(t, page.HasMore)
	assert.Equal(t, DefaultLimit, page.Limit)
}

func TestListPagination(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)
	ctx := t.Context()

	tests := []struct {
		name        string
		limit       int
		offset      int
		wantIDs     []int
		wantHasMore bool
	}{
		{"first page", 3, 0, []int{1, 4, 25}, true},
		{"middle page", 3, 3, []int{125, 155, 250}, true},
		{"last page", 3, 6, []int{906}, false},
		{"exact end", 7, 0, []int{1, 4, 25, 125, 155, 250, 906}, false},
		{"past end", 5, 20, []int{}, false},
		{"negative offset", 2, -4, []int{1, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, ListParams{Limit: tt.limit, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Pokemon))
			assert.Equal(t, 7, page.Total)
			assert.Equal(t, tt.wantHasMore, page.HasMore)
		})
	}
}

func TestListLargeLimitReturnsEverything(t *testing.T) {
	svc, store := newTestService(t)
	for id := 1; id <= 250; id++ {
		seedPokemon(t, store, id, fmt.Sprintf("mon-%d", id), "normal")
	}

	page, err := svc.List(t.Context(), ListParams{Limit: 300})
	require.NoError(t, err)
	assert.Len(t, page.Pokemon, 250)
	assert.Equal(t, 300, page.Limit)
	assert.Equal(t, 250, page.Total)
	assert.False(t, page.HasMore)

	page, err = svc.List(t.Context(), ListParams{Limit: 240})
	require.NoError(t, err)
	assert.Len(t, page.Pokemon, 240)
	assert.True(t, page.HasMore)
}

func TestListSearch(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)
	ctx := t.Context()

	page, err := svc.List(ctx, ListParams{Search: "25"})
	require.NoError(t, err)
	assert.Equal(t, []int{25, 125, 250}, ids(page.Pokemon))

	page, err = svc.List(ctx, ListParams{Search: "  CHAR "})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids(page.Pokemon))

	page, err = svc.List(ctx, ListParams{Search: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, page.Pokemon)
	assert.Zero(t, page.Total)
}

func TestListTypesCaseInsensitive(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)
	ctx := t.Context()

	lower, err := svc.List(ctx, ListParams{Types: []string{"fire"}})
	require.NoError(t, err)
	upper, err := svc.List(ctx, ListParams{Types: []string{"Fire"}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 155, 250}, ids(lower.Pokemon))
	assert.Equal(t, ids(lower.Pokemon), ids(upper.Pokemon))

	anyOf, err := svc.List(ctx, ListParams{Types: []string{"POISON", "electric", ""}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 25, 125}, ids(anyOf.Pokemon))
}

func TestListGeneration(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)
	ctx := t.Context()

	page, err := svc.List(ctx, ListParams{Generation: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{155, 250}, ids(page.Pokemon))

	page, err = svc.List(ctx, ListParams{Generation: 1, Types: []string{"electric"}, Search: "pika"})
	require.NoError(t, err)
	assert.Equal(t, []int{25}, ids(page.Pokemon))

	page, err = svc.List(ctx, ListParams{Generation: 42})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total, "unknown generation does not filter")
}

func TestListGenerationFallsBackToIDRange(t *testing.T) {
	svc, store := newTestService(t)
	ctx := t.Context()

	// Stored with a wrong generation column so the index lookup finds nothing.
	p := pokedex.Pokemon{ID: 152, Name: "chikorita", Types: []string{"grass"}, Generation: 0}
	require.NoError(t, store.Pokemon.Save(ctx, repository.PokemonEntity(&p)))

	page, err := svc.List(ctx, ListParams{Generation: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{152}, ids(page.Pokemon))
}

func TestListIsMemoizedUntilFlush(t *testing.T) {
	svc, store := newTestService(t)
	seedCatalog(t, store)
	ctx := t.Context()

	page, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Equal(t, 7, page.Total)

	seedPokemon(t, store, 7, "squirtle", "water")

	page, err = svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total, "served from memo")

	svc.Flush()
	page, err = svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)
}

func TestFilterDeduplicatesKeepingFirst(t *testing.T) {
	records := []pokedex.Pokemon{
		{ID: 2, Name: "ivysaur"},
		{ID: 1, Name: "bulbasaur"},
		{ID: 2, Name: "ivysaur-duplicate"},
	}

	out := Filter(records, "", nil)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, "ivysaur", out[1].Name)
}

func TestGetByID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := t.Context()
	seedPokemon(t, store, 25, "pikachu", "electric")

	detail, err := svc.GetByID(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", detail.Pokemon.Name)
	assert.Nil(t, detail.Species)

	s := pokedex.Species{ID: 25, Name: "pikachu", Genus: "Mouse Pokémon", Generation: 1}
	require.NoError(t, store.Species.Save(ctx, repository.SpeciesEntity(&s)))

	detail, err = svc.GetByID(ctx, 25)
	require.NoError(t, err)
	require.NotNil(t, detail.Species)
	assert.Equal(t, "Mouse Pokémon", detail.Species.Genus)

	_, err = svc.GetByID(ctx, 9999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, repository.ErrPokemonNotFound)
}

func TestGetTypesSortedByName(t *testing.T) {
	svc, store := newTestService(t)
	ctx := t.Context()

	for _, name := range []string{"water", "fire", "grass"} {
		require.NoError(t, store.Types.Create(ctx, &entities.PokemonType{Name: name, Color: pokedex.TypeColor(name)}))
	}

	types, err := svc.GetTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "fire", types[0].Name)
	assert.Equal(t, pokedex.TypeColor("fire"), types[0].Color)
	assert.Equal(t, "water", types[2].Name)
}
