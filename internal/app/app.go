// Package app wires settings into the long-lived service components shared
// by the serve and refresh commands.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tphakala/pokedex-go/internal/buildinfo"
	"github.com/tphakala/pokedex-go/internal/catalog"
	"github.com/tphakala/pokedex-go/internal/conf"
	"github.com/tphakala/pokedex-go/internal/datastore"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/observability"
	"github.com/tphakala/pokedex-go/internal/pokeapi"
	"github.com/tphakala/pokedex-go/internal/query"
)

// App holds the assembled components. Close releases them in reverse order.
type App struct {
	Settings *conf.Settings
	Build    *buildinfo.Context
	Logger   logger.Logger

	DB       datastore.Manager
	Store    *repository.Store
	Upstream *pokeapi.Client
	Fetcher  *catalog.Fetcher
	Query    *query.Service
	Metrics  *observability.Metrics
}

// New assembles the application from settings. The global logger must
// already be configured.
func New(settings *conf.Settings, build *buildinfo.Context) (*App, error) {
	log := logger.Global().Module("app")

	if settings.Sentry.Enabled {
		if err := errors.InitSentry(settings.Sentry.DSN, build.GetVersion()); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		log.Info("sentry telemetry enabled")
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	db, err := datastore.Open(&settings.Database, logger.Global().Module("datastore"))
	if err != nil {
		return nil, err
	}

	upstream := pokeapi.NewClient(UpstreamConfig(settings), logger.Global().Module("pokeapi"))
	upstream.HTTP().SetAfterResponseHook(func(req *http.Request, resp *http.Response, _ error, d time.Duration) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		m.Upstream.RecordRequest(req.URL.Host, status, d.Seconds())
	})

	store := datastore.NewStore(db)
	a := &App{
		Settings: settings,
		Build:    build,
		Logger:   log,
		DB:       db,
		Store:    store,
		Upstream: upstream,
		Fetcher: catalog.NewFetcher(upstream, store, CatalogConfig(settings),
			catalog.WithRecorder(m.Catalog),
			catalog.WithLogger(logger.Global().Module("catalog"))),
		Query:   query.NewService(store, settings.Query.CacheTTL, logger.Global().Module("query")),
		Metrics: m,
	}

	log.Info("application initialized",
		logger.String("version", build.GetVersion()),
		logger.String("database", db.Path()),
		logger.Bool("mysql", db.IsMySQL()))
	return a, nil
}

// Close releases the upstream client and the database.
func (a *App) Close() error {
	a.Upstream.Close()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// UpstreamConfig maps pokeapi.* settings onto the client config.
func UpstreamConfig(settings *conf.Settings) pokeapi.Config {
	return pokeapi.Config{
		BaseURL:      settings.PokeAPI.BaseURL,
		UserAgent:    settings.PokeAPI.UserAgent,
		Timeout:      settings.PokeAPI.Timeout,
		CacheTTL:     settings.PokeAPI.CacheTTL,
		RateLimit:    settings.PokeAPI.RateLimit,
		Burst:        settings.PokeAPI.Burst,
		MaxRetries:   settings.PokeAPI.MaxRetries,
		RetryBackoff: settings.PokeAPI.RetryBackoff,
	}
}

// CatalogConfig maps catalog.* settings onto the fetcher config, keeping
// defaults for unset values.
func CatalogConfig(settings *conf.Settings) catalog.Config {
	cfg := catalog.DefaultConfig()
	s := settings.Catalog
	if s.MaxID > 0 {
		cfg.MaxID = s.MaxID
	}
	if s.BatchSize > 0 {
		cfg.BatchSize = s.BatchSize
	}
	if s.BatchDelay >= 0 {
		cfg.BatchDelay = s.BatchDelay
	}
	if s.PaldeaStartID > 0 {
		cfg.PaldeaStartID = s.PaldeaStartID
	}
	if s.PaldeaBatchSize > 0 {
		cfg.PaldeaBatchSize = s.PaldeaBatchSize
	}
	if s.PaldeaBatchDelay >= 0 {
		cfg.PaldeaBatchDelay = s.PaldeaBatchDelay
	}
	if s.MoveLimit > 0 {
		cfg.MoveLimit = s.MoveLimit
	}
	return cfg
}
