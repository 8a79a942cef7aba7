// Package catalog populates the local Pokémon cache from the upstream API.
package catalog

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/observability/metrics"
	"github.com/tphakala/pokedex-go/internal/pokeapi"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

const componentName = "catalog"

// Upstream is the subset of the PokéAPI client used by the fetcher.
type Upstream interface {
	Pokemon(ctx context.Context, ref string) (*pokeapi.Pokemon, error)
	Species(ctx context.Context, ref string) (*pokeapi.Species, error)
	Types(ctx context.Context) ([]pokeapi.NamedResource, error)
	Pokedex(ctx context.Context, name string) (*pokeapi.Pokedex, error)
}

// Recorder receives refresh metrics.
type Recorder interface {
	RecordRefresh(operation string, err error, seconds float64)
	RecordPokemon(status string)
	RecordBatch()
	SetCachedPokemon(count int64)
}

// Config controls batching.
type Config struct {
	MaxID            int
	BatchSize        int
	BatchDelay       time.Duration
	PaldeaStartID    int
	PaldeaBatchSize  int
	PaldeaBatchDelay time.Duration
	MoveLimit        int
}

// DefaultConfig returns the batching used against the public API.
func DefaultConfig() Config {
	return Config{
		MaxID:            pokedex.MaxID,
		BatchSize:        8,
		BatchDelay:       250 * time.Millisecond,
		PaldeaStartID:    906,
		PaldeaBatchSize:  16,
		PaldeaBatchDelay: 100 * time.Millisecond,
		MoveLimit:        pokedex.DefaultMoveLimit,
	}
}

// Result summarizes a range refresh. Cached counts every requested id,
// including ids that were already present and skipped.
type Result struct {
	Cached    int `json:"cached"`
	Requested int `json:"requested"`
	Fetched   int `json:"fetched"`
	Skipped   int `json:"skipped"`
}

// Fetcher writes upstream documents into the cache store.
type Fetcher struct {
	upstream Upstream
	store    *repository.Store
	config   Config
	recorder Recorder
	logger   logger.Logger
	now      func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(f *Fetcher) { f.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) { f.logger = l.Module(componentName) }
}

// WithClock overrides the timestamp source for cached records.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a Fetcher. Zero config fields take their defaults.
func NewFetcher(upstream Upstream, store *repository.Store, cfg Config, opts ...Option) *Fetcher {
	def := DefaultConfig()
	if cfg.MaxID <= 0 {
		cfg.MaxID = def.MaxID
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.PaldeaStartID <= 0 {
		cfg.PaldeaStartID = def.PaldeaStartID
	}
	if cfg.PaldeaBatchSize <= 0 {
		cfg.PaldeaBatchSize = def.PaldeaBatchSize
	}
	if cfg.MoveLimit <= 0 {
		cfg.MoveLimit = def.MoveLimit
	}

	f := &Fetcher{
		upstream: upstream,
		store:    store,
		config:   cfg,
		recorder: noopRecorder{},
		logger:   logger.Global().Module(componentName),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RefreshCatalog ensures ids offset+1 .. offset+limit (capped at MaxID) are cached
// and the type table is current. Batches run in sequence; if any id in a batch
// fails, the remaining batches are not started and the failures are returned as
// one aggregated error.
func (f *Fetcher) RefreshCatalog(ctx context.Context, limit, offset int) (Result, error) {
	start := time.Now()
	result, err := f.refreshCatalog(ctx, limit, offset)
	f.recorder.RecordRefresh(metrics.OpRefresh, err, time.Since(start).Seconds())
	f.updateCacheGauge(ctx)
	return result, err
}

func (f *Fetcher) refreshCatalog(ctx context.Context, limit, offset int) (Result, error) {
	ids := f.targetIDs(limit, offset)
	if len(ids) == 0 {
		f.logger.Debug("nothing to refresh",
			logger.Int("limit", limit),
			logger.Int("offset", offset))
		return Result{}, nil
	}

	if err := f.RefreshTypes(ctx); err != nil {
		return Result{}, err
	}

	batchSize, delay := f.batching(ids[0])
	result := Result{Requested: len(ids)}
	var fetched, skipped atomic.Int64

	f.logger.Info("refreshing catalog",
		logger.Int("first_id", ids[0]),
		logger.Int("last_id", ids[len(ids)-1]),
		logger.Int("batch_size", batchSize),
		logger.Duration("batch_delay", delay))

	for i := 0; i < len(ids); i += batchSize {
		if i > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				return f.partial(result, &fetched, &skipped), contextErr(err, "refresh_catalog")
			}
		}

		batch := ids[i:min(i+batchSize, len(ids))]
		failures := f.runBatch(ctx, batch, batchSize, &fetched, &skipped)
		f.recorder.RecordBatch()

		if len(failures) > 0 {
			result = f.partial(result, &fetched, &skipped)
			return result, f.batchError(failures, len(ids))
		}
	}

	result = f.partial(result, &fetched, &skipped)
	result.Cached = len(ids)

	f.logger.Info("catalog refresh complete",
		logger.Int("cached", result.Cached),
		logger.Int("fetched", result.Fetched),
		logger.Int("skipped", result.Skipped))
	return result, nil
}

type idFailure struct {
	id  int
	err error
}

// runBatch processes every id of the batch in parallel and collects failures.
// A failing id never cancels its siblings.
func (f *Fetcher) runBatch(ctx context.Context, batch []int, limit int, fetched, skipped *atomic.Int64) []idFailure {
	var (
		mu       sync.Mutex
		failures []idFailure
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for _, id := range batch {
		g.Go(func() error {
			wasSkipped, err := f.cacheID(ctx, id)
			switch {
			case err != nil:
				f.recorder.RecordPokemon(metrics.StatusError)
				f.logger.Warn("failed to cache pokemon",
					logger.Int("id", id),
					logger.Error(err))
				mu.Lock()
				failures = append(failures, idFailure{id: id, err: err})
				mu.Unlock()
			case wasSkipped:
				f.recorder.RecordPokemon(metrics.StatusSkipped)
				skipped.Add(1)
			default:
				f.recorder.RecordPokemon(metrics.StatusSuccess)
				fetched.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return failures
}

// cacheID fetches and stores one id unless it is already cached.
func (f *Fetcher) cacheID(ctx context.Context, id int) (skipped bool, err error) {
	exists, err := f.store.Pokemon.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	ref := strconv.Itoa(id)
	var (
		pokemonDoc *pokeapi.Pokemon
		speciesDoc *pokeapi.Species
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pokemonDoc, err = f.upstream.Pokemon(gctx, ref)
		return err
	})
	g.Go(func() error {
		var err error
		speciesDoc, err = f.upstream.Species(gctx, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return false, f.save(ctx, id, pokemonDoc, speciesDoc)
}

// save normalizes both documents and upserts them in one transaction under id.
func (f *Fetcher) save(ctx context.Context, id int, pokemonDoc *pokeapi.Pokemon, speciesDoc *pokeapi.Species) error {
	now := f.now()
	p := pokedex.NormalizePokemon(pokemonDoc, pokedex.SpeciesGeneration(speciesDoc), f.config.MoveLimit, now)
	p.ID = id
	s := pokedex.NormalizeSpecies(speciesDoc, id, now)

	if err := f.store.SaveCatalogEntry(ctx, repository.PokemonEntity(&p), repository.SpeciesEntity(&s)); err != nil {
		return errors.New(err).
			Component(componentName).
			Category(errors.CategoryDatabase).
			Context("operation", "save_catalog_entry").
			Context("pokemon_id", id).
			Build()
	}
	return nil
}

// RefreshTypes inserts every upstream type missing from the table and patches
// colors that differ from the local palette.
func (f *Fetcher) RefreshTypes(ctx context.Context) error {
	start := time.Now()
	err := f.refreshTypes(ctx)
	f.recorder.RecordRefresh(metrics.OpTypes, err, time.Since(start).Seconds())
	return err
}

func (f *Fetcher) refreshTypes(ctx context.Context) error {
	types, err := f.upstream.Types(ctx)
	if err != nil {
		return err
	}

	var inserted, patched int
	for _, t := range types {
		if t.Name == "" {
			continue
		}

		stored, err := f.store.Types.Get(ctx, t.Name)
		switch {
		case errors.Is(err, repository.ErrTypeNotFound):
			if err := f.store.Types.Create(ctx, &entities.PokemonType{Name: t.Name, Color: pokedex.TypeColor(t.Name)}); err != nil {
				return typeErr(err, t.Name)
			}
			inserted++
		case err != nil:
			return typeErr(err, t.Name)
		default:
			color, ok := pokedex.LocalTypeColor(t.Name)
			if ok && stored.Color != color {
				if err := f.store.Types.UpdateColor(ctx, t.Name, color); err != nil {
					return typeErr(err, t.Name)
				}
				patched++
			}
		}
	}

	f.logger.Debug("type table refreshed",
		logger.Int("upstream", len(types)),
		logger.Int("inserted", inserted),
		logger.Int("patched", patched))
	return nil
}

// targetIDs returns the ids for a limit/offset pair, clamped to MaxID.
func (f *Fetcher) targetIDs(limit, offset int) []int {
	if limit <= 0 || offset < 0 || offset >= f.config.MaxID {
		return nil
	}
	// Clamp before adding so huge limits cannot overflow.
	limit = min(limit, f.config.MaxID-offset)
	last := offset + limit
	ids := make([]int, 0, last-offset)
	for id := offset + 1; id <= last; id++ {
		ids = append(ids, id)
	}
	return ids
}

// batching picks the batch size and delay for a range starting at firstID.
func (f *Fetcher) batching(firstID int) (int, time.Duration) {
	if firstID >= f.config.PaldeaStartID {
		return f.config.PaldeaBatchSize, f.config.PaldeaBatchDelay
	}
	return f.config.BatchSize, f.config.BatchDelay
}

func (f *Fetcher) partial(r Result, fetched, skipped *atomic.Int64) Result {
	r.Fetched = int(fetched.Load())
	r.Skipped = int(skipped.Load())
	return r
}

func (f *Fetcher) batchError(failures []idFailure, total int) error {
	errs := make([]error, 0, len(failures))
	ids := make([]int, 0, len(failures))
	for _, fail := range failures {
		errs = append(errs, fail.err)
		ids = append(ids, fail.id)
	}
	return errors.Newf("failed to cache %d of %d pokemon: %w", len(failures), total, errors.Join(errs...)).
		Component(componentName).
		Category(errors.CategoryCatalogBatch).
		Context("failed_ids", ids).
		Context("requested", total).
		Build()
}

func (f *Fetcher) updateCacheGauge(ctx context.Context) {
	if count, err := f.store.Pokemon.Count(context.WithoutCancel(ctx)); err == nil {
		f.recorder.SetCachedPokemon(count)
	}
}

func typeErr(err error, name string) error {
	return errors.New(err).
		Component(componentName).
		Category(errors.CategoryDatabase).
		Context("operation", "refresh_types").
		Context("type", name).
		Build()
}

func contextErr(err error, operation string) error {
	category := errors.CategoryCancellation
	if errors.Is(err, context.DeadlineExceeded) {
		category = errors.CategoryTimeout
	}
	return errors.New(err).
		Component(componentName).
		Category(category).
		Context("operation", operation).
		Build()
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopRecorder struct{}

func (noopRecorder) RecordRefresh(string, error, float64) {}
func (noopRecorder) RecordPokemon(string)                 {}
func (noopRecorder) RecordBatch()                         {}
func (noopRecorder) SetCachedPokemon(int64)               {}
