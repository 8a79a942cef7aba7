// Package query serves filtered, paginated views over the local Pokémon cache
// and maintains per-user favorites and profiles.
package query

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

const (
	componentName = "query"

	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 20

	// DefaultCacheTTL is how long list and type results are memoized.
	DefaultCacheTTL = 5 * time.Minute

	typesCacheKey = "types"
)

// ListParams selects a page of Pokémon. Zero values mean "no filter".
type ListParams struct {
	Limit      int
	Offset     int
	Search     string
	Types      []string
	Generation int
}

// Page is one page of a filtered listing.
type Page struct {
	Pokemon []pokedex.Pokemon `json:"pokemon"`
	Total   int               `json:"total"`
	HasMore bool              `json:"hasMore"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// Detail is a Pokémon with its species record, when one is cached.
type Detail struct {
	Pokemon pokedex.Pokemon  `json:"pokemon"`
	Species *pokedex.Species `json:"species"`
}

// Service answers catalog queries against the cache store.
type Service struct {
	store  *repository.Store
	memo   *cache.Cache
	logger logger.Logger
}

// NewService creates a query service. A non-positive ttl uses DefaultCacheTTL.
func NewService(store *repository.Store, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Global()
	}
	return &Service{
		store:  store,
		memo:   cache.New(ttl, 2*ttl),
		logger: log.Module(componentName),
	}
}

// Flush drops memoized results. Called after the cache store changes.
func (s *Service) Flush() {
	s.memo.Flush()
}

// List returns the page of cached Pokémon matching params, sorted by id.
// Total counts all matches before slicing.
func (s *Service) List(ctx context.Context, params ListParams) (Page, error) {
	params = normalizeParams(params)

	matches, err := s.filtered(ctx, params)
	if err != nil {
		return Page{}, err
	}

	total := len(matches)
	start := min(params.Offset, total)
	end := min(params.Offset+params.Limit, total)

	page := make([]pokedex.Pokemon, end-start)
	copy(page, matches[start:end])

	return Page{
		Pokemon: page,
		Total:   total,
		HasMore: params.Offset+params.Limit < total,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}, nil
}

// filtered returns the full sorted match set, memoized by filter.
func (s *Service) filtered(ctx context.Context, params ListParams) ([]pokedex.Pokemon, error) {
	key := listCacheKey(params)
	if cached, found := s.memo.Get(key); found {
		if list, ok := cached.([]pokedex.Pokemon); ok {
			return list, nil
		}
	}

	rows, err := s.scan(ctx, params.Generation)
	if err != nil {
		return nil, err
	}

	matches := Filter(repository.PokemonRecords(rows), params.Search, params.Types)
	s.memo.Set(key, matches, cache.DefaultExpiration)
	return matches, nil
}

// scan loads the candidate rows: the generation index when gen is valid,
// falling back to the id range if the index yields nothing, else everything.
func (s *Service) scan(ctx context.Context, gen int) ([]entities.Pokemon, error) {
	r, ok := pokedex.GenerationRange(gen)
	if !ok {
		rows, err := s.store.Pokemon.All(ctx)
		return rows, dbErr(err, "list_all")
	}

	rows, err := s.store.Pokemon.ByGeneration(ctx, gen)
	if err != nil {
		return nil, dbErr(err, "list_by_generation")
	}
	if len(rows) > 0 {
		return rows, nil
	}

	s.logger.Debug("generation index empty, scanning id range",
		logger.Int("generation", gen),
		logger.Int("start", r.Start),
		logger.Int("end", r.End))
	rows, err = s.store.Pokemon.ByIDRange(ctx, r.Start, r.End)
	return rows, dbErr(err, "list_by_id_range")
}

// Filter de-duplicates by id keeping the first record, applies the search and
// type filters, and sorts ascending by id.
func Filter(records []pokedex.Pokemon, search string, types []string) []pokedex.Pokemon {
	search = strings.ToLower(strings.TrimSpace(search))
	wanted := normalizeTypes(types)

	seen := make(map[int]struct{}, len(records))
	out := make([]pokedex.Pokemon, 0, len(records))
	for i := range records {
		p := &records[i]
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strconv.Itoa(p.ID), search) {
			continue
		}
		if len(wanted) > 0 && !slices.ContainsFunc(wanted, p.HasType) {
			continue
		}
		out = append(out, *p)
	}

	slices.SortStableFunc(out, func(a, b pokedex.Pokemon) int { return a.ID - b.ID })
	return out
}

// GetByID returns the cached Pokémon and its species, if present.
func (s *Service) GetByID(ctx context.Context, id int) (*Detail, error) {
	e, err := s.store.Pokemon.Get(ctx, id)
	if errors.Is(err, repository.ErrPokemonNotFound) {
		return nil, notFound(err, id)
	}
	if err != nil {
		return nil, dbErr(err, "get_pokemon")
	}

	detail := &Detail{Pokemon: repository.PokemonRecord(e)}

	sp, err := s.store.Species.Get(ctx, id)
	switch {
	case err == nil:
		record := repository.SpeciesRecord(sp)
		detail.Species = &record
	case !errors.Is(err, repository.ErrSpeciesNotFound):
		return nil, dbErr(err, "get_species")
	}
	return detail, nil
}

// GetTypes returns every cached type sorted by name.
func (s *Service) GetTypes(ctx context.Context) ([]pokedex.Type, error) {
	if cached, found := s.memo.Get(typesCacheKey); found {
		if types, ok := cached.([]pokedex.Type); ok {
			return types, nil
		}
	}

	rows, err := s.store.Types.List(ctx)
	if err != nil {
		return nil, dbErr(err, "list_types")
	}

	types := make([]pokedex.Type, 0, len(rows))
	for _, row := range rows {
		types = append(types, pokedex.Type{Name: row.Name, Color: row.Color})
	}
	s.memo.Set(typesCacheKey, types, cache.DefaultExpiration)
	return types, nil
}

func normalizeParams(p ListParams) ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	p.Offset = max(p.Offset, 0)
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
	p.Types = normalizeTypes(p.Types)
	if _, ok := pokedex.GenerationRange(p.Generation); !ok {
		p.Generation = 0
	}
	return p
}

// normalizeTypes lowercases, drops empty entries and sorts for stable cache keys.
func normalizeTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

func listCacheKey(p ListParams) string {
	return "list|" + strconv.Itoa(p.Generation) + "|" + p.Search + "|" + strings.Join(p.Types, ",")
}

func dbErr(err error, operation string) error {
	if err == nil {
		return nil
	}
	return errors.New(err).
		Component(componentName).
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

func notFound(err error, id int) error {
	return errors.New(err).
		Component(componentName).
		Category(errors.CategoryNotFound).
		Context("pokemon_id", id).
		Build()
}
