package catalog

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/observability/metrics"
	"github.com/tphakala/pokedex-go/internal/pokeapi"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

// RegionalResult summarizes a regional dex refresh.
type RegionalResult struct {
	Dex     string `json:"dex"`
	Entries int    `json:"entries"`
	Cached  int    `json:"cached"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// RefreshRegional caches the preferred form of every species listed in a
// regional dex. A variety named "<species>-<formSuffix>" wins over the default
// variety. Entry failures are logged and counted; they never stop the run.
func (f *Fetcher) RefreshRegional(ctx context.Context, dex, formSuffix string) (RegionalResult, error) {
	start := time.Now()
	result, err := f.refreshRegional(ctx, dex, formSuffix)
	f.recorder.RecordRefresh(metrics.OpRegional, err, time.Since(start).Seconds())
	f.updateCacheGauge(ctx)
	return result, err
}

func (f *Fetcher) refreshRegional(ctx context.Context, dex, formSuffix string) (RegionalResult, error) {
	dex = strings.ToLower(strings.TrimSpace(dex))
	formSuffix = strings.ToLower(strings.TrimSpace(formSuffix))
	if dex == "" {
		return RegionalResult{}, errors.Newf("regional dex name is required").
			Component(componentName).
			Category(errors.CategoryValidation).
			Build()
	}

	if err := f.RefreshTypes(ctx); err != nil {
		return RegionalResult{}, err
	}

	doc, err := f.upstream.Pokedex(ctx, dex)
	if err != nil {
		return RegionalResult{}, err
	}

	result := RegionalResult{Dex: dex, Entries: len(doc.Entries)}
	if len(doc.Entries) == 0 {
		return result, nil
	}

	var cached, skipped, failed atomic.Int64
	batchSize, delay := f.config.BatchSize, f.config.BatchDelay

	f.logger.Info("refreshing regional dex",
		logger.String("dex", dex),
		logger.String("form", formSuffix),
		logger.Int("entries", len(doc.Entries)))

	for i := 0; i < len(doc.Entries); i += batchSize {
		if i > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				result.Cached, result.Skipped, result.Failed = int(cached.Load()), int(skipped.Load()), int(failed.Load())
				return result, contextErr(err, "refresh_regional")
			}
		}

		var g errgroup.Group
		g.SetLimit(batchSize)
		for _, entry := range doc.Entries[i:min(i+batchSize, len(doc.Entries))] {
			g.Go(func() error {
				wasSkipped, err := f.cacheRegionalEntry(ctx, entry, formSuffix)
				switch {
				case err != nil:
					failed.Add(1)
					f.recorder.RecordPokemon(metrics.StatusError)
					f.logger.Warn("failed to cache regional entry",
						logger.String("dex", dex),
						logger.String("species", entry.SpeciesName),
						logger.Error(err))
				case wasSkipped:
					skipped.Add(1)
					f.recorder.RecordPokemon(metrics.StatusSkipped)
				default:
					cached.Add(1)
					f.recorder.RecordPokemon(metrics.StatusSuccess)
				}
				return nil
			})
		}
		_ = g.Wait()
		f.recorder.RecordBatch()
	}

	result.Cached, result.Skipped, result.Failed = int(cached.Load()), int(skipped.Load()), int(failed.Load())
	f.logger.Info("regional refresh complete",
		logger.String("dex", dex),
		logger.Int("cached", result.Cached),
		logger.Int("skipped", result.Skipped),
		logger.Int("failed", result.Failed))
	return result, nil
}

// cacheRegionalEntry resolves the entry's preferred form and caches it.
func (f *Fetcher) cacheRegionalEntry(ctx context.Context, entry pokeapi.PokedexEntry, formSuffix string) (bool, error) {
	speciesRef := entry.SpeciesName
	if id, ok := pokedex.ResourceID(entry.SpeciesURL); ok {
		speciesRef = strconv.Itoa(id)
	}

	speciesDoc, err := f.upstream.Species(ctx, speciesRef)
	if err != nil {
		return false, err
	}

	variety := PreferredVariety(speciesDoc, formSuffix)
	if variety == nil {
		return false, errors.Newf("species %s has no varieties", entry.SpeciesName).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("species", entry.SpeciesName).
			Build()
	}

	formRef := variety.Name
	if id, ok := pokedex.ResourceID(variety.URL); ok {
		formRef = strconv.Itoa(id)
		exists, err := f.store.Pokemon.Exists(ctx, id)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}

	pokemonDoc, err := f.upstream.Pokemon(ctx, formRef)
	if err != nil {
		return false, err
	}
	if pokemonDoc.ID <= 0 {
		return false, errors.Newf("pokemon %s has no id", formRef).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Build()
	}

	return false, f.save(ctx, pokemonDoc.ID, pokemonDoc, speciesDoc)
}

// PreferredVariety returns the variety whose name ends in "-<formSuffix>",
// falling back to the default variety, then to the first one listed.
func PreferredVariety(doc *pokeapi.Species, formSuffix string) *pokeapi.NamedResource {
	if doc == nil {
		return nil
	}

	var def, first *pokeapi.NamedResource
	for _, v := range doc.Varieties {
		if v.Pokemon == nil || v.Pokemon.Name == "" {
			continue
		}
		if formSuffix != "" && strings.HasSuffix(v.Pokemon.Name, "-"+formSuffix) {
			return v.Pokemon
		}
		if first == nil {
			first = v.Pokemon
		}
		if v.IsDefault && def == nil {
			def = v.Pokemon
		}
	}
	if def != nil {
		return def
	}
	return first
}
