// Package pokeapi is a typed, rate-limited client for the PokéAPI v2 REST API.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/httpclient"
	"github.com/tphakala/pokedex-go/internal/logger"
)

const (
	componentName = "pokeapi"

	// DefaultBaseURL is the public PokéAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// typeListLimit covers every type in one page.
	typeListLimit = 100

	maxErrorBodyPreview = 200

	// maxBodyBytes bounds a single upstream document. The largest PokéAPI
	// payloads are well under 1 MiB.
	maxBodyBytes = 4 << 20
)

// Config holds client settings
type Config struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	CacheTTL     time.Duration
	RateLimit    float64 // requests per second; 0 disables limiting
	Burst        int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client fetches PokéAPI documents. Safe for concurrent use.
type Client struct {
	config  Config
	http    *httpclient.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	logger  logger.Logger
}

// NewClient creates a PokéAPI client.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if log == nil {
		log = logger.NewSlogLogger(nil, logger.LogLevelInfo, nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		config: cfg,
		http: httpclient.New(&httpclient.Config{
			DefaultTimeout: cfg.Timeout,
			UserAgent:      cfg.UserAgent,
		}),
		limiter: limiter,
		cache:   cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:  log.Module(componentName),
	}
}

// HTTP returns the underlying HTTP client for hooks and test mocking.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

// FlushCache drops all memoized documents.
func (c *Client) FlushCache() {
	c.cache.Flush()
}

// Pokemon fetches /pokemon/{ref} where ref is a numeric id or a form name.
func (c *Client) Pokemon(ctx context.Context, ref string) (*Pokemon, error) {
	var doc Pokemon
	if err := c.getJSON(ctx, "pokemon", ref, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Species fetches /pokemon-species/{ref}.
func (c *Client) Species(ctx context.Context, ref string) (*Species, error) {
	var doc Species
	if err := c.getJSON(ctx, "pokemon-species", ref, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Types fetches the full type listing.
func (c *Client) Types(ctx context.Context) ([]NamedResource, error) {
	var doc TypeList
	if err := c.getJSON(ctx, "type", fmt.Sprintf("?limit=%d", typeListLimit), &doc); err != nil {
		return nil, err
	}
	return doc.Results, nil
}

// Pokedex fetches a regional dex by name, e.g. "paldea" or "hisui".
// Only the entry list is kept, so it is parsed loosely.
func (c *Client) Pokedex(ctx context.Context, name string) (*Pokedex, error) {
	url := c.resourceURL("pokedex", name)
	if cached, found := c.cache.Get(url); found {
		if dex, ok := cached.(*Pokedex); ok {
			return dex, nil
		}
	}

	body, err := c.fetchWithRetry(ctx, "pokedex", name, url)
	if err != nil {
		return nil, err
	}

	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, c.decodeError("pokedex", name, err)
	}

	dex := &Pokedex{Name: name}
	if id, err := obj.GetInt64("id"); err == nil {
		dex.ID = int(id)
	}
	if n, err := obj.GetString("name"); err == nil {
		dex.Name = n
	}

	entries, err := obj.GetObjectArray("pokemon_entries")
	if err != nil {
		return nil, c.decodeError("pokedex", name, err)
	}
	for _, entry := range entries {
		speciesName, err := entry.GetString("pokemon_species", "name")
		if err != nil {
			continue
		}
		number, _ := entry.GetInt64("entry_number")
		speciesURL, _ := entry.GetString("pokemon_species", "url")
		dex.Entries = append(dex.Entries, PokedexEntry{
			EntryNumber: int(number),
			SpeciesName: speciesName,
			SpeciesURL:  speciesURL,
		})
	}

	c.cache.Set(url, dex, cache.DefaultExpiration)
	return dex, nil
}

func (c *Client) resourceURL(resource, ref string) string {
	if strings.HasPrefix(ref, "?") {
		return c.config.BaseURL + "/" + resource + ref
	}
	return c.config.BaseURL + "/" + resource + "/" + ref
}

// getJSON fetches resource/ref and decodes it into out, memoizing the result.
func (c *Client) getJSON(ctx context.Context, resource, ref string, out any) error {
	url := c.resourceURL(resource, ref)

	if cached, found := c.cache.Get(url); found {
		if data, ok := cached.([]byte); ok {
			return json.Unmarshal(data, out)
		}
	}

	body, err := c.fetchWithRetry(ctx, resource, ref, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.decodeError(resource, ref, err)
	}

	// Re-encode the typed document: it drops the fields we never read.
	if compact, err := json.Marshal(out); err == nil {
		c.cache.Set(url, compact, cache.DefaultExpiration)
	}
	return nil
}

// fetchWithRetry retries transient failures with linear backoff.
// Client errors other than 429 are returned immediately.
func (c *Client) fetchWithRetry(ctx context.Context, resource, ref, url string) ([]byte, error) {
	var lastErr error

	for attempt := range c.config.MaxRetries {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.config.RetryBackoff
			c.logger.Debug("retrying upstream request",
				logger.String("resource", resource),
				logger.String("ref", ref),
				logger.Int("attempt", attempt+1),
				logger.Duration("backoff", backoff))

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, c.contextError(ctx, resource, ref)
			case <-timer.C:
			}
		}

		body, err := c.fetch(ctx, resource, ref, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, c.contextError(ctx, resource, ref)
		}
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, resource, ref, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryNetwork).
			Context("operation", "rate_limiter_wait").
			Context("resource", resource).
			Build()
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, errors.Newf("failed to fetch %s %s: %w", resource, ref, err).
			Component(componentName).
			Category(errors.CategoryNetwork).
			NetworkContext(url, c.config.Timeout).
			Context("resource", resource).
			Context("ref", ref).
			Build()
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("failed to close response body", logger.Error(cerr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.Newf("failed to read %s %s response: %w", resource, ref, err).
			Component(componentName).
			Category(errors.CategoryNetwork).
			Context("resource", resource).
			Context("ref", ref).
			Build()
	}
	if len(body) > maxBodyBytes {
		return nil, errors.Newf("%s %s response exceeds %d bytes", resource, ref, maxBodyBytes).
			Component(componentName).
			Category(errors.CategoryLimit).
			Context("resource", resource).
			Context("ref", ref).
			Context("max_bytes", maxBodyBytes).
			Build()
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > maxErrorBodyPreview {
			preview = preview[:maxErrorBodyPreview] + "..."
		}
		c.logger.Warn("upstream returned non-success status",
			logger.String("resource", resource),
			logger.String("ref", ref),
			logger.Int("status_code", resp.StatusCode),
			logger.String("body_preview", preview))

		return nil, errors.New(fmt.Errorf("failed to fetch %s %s: status %d: %w",
			resource, ref, resp.StatusCode, &httpclient.StatusError{URL: url, StatusCode: resp.StatusCode})).
			Component(componentName).
			Category(errors.CategoryUpstream).
			Timing("fetch_"+resource, time.Since(start)).
			Context("resource", resource).
			Context("ref", ref).
			Context("status_code", resp.StatusCode).
			Build()
	}

	c.logger.Trace("upstream document fetched",
		logger.String("resource", resource),
		logger.String("ref", ref),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", time.Since(start)))

	return body, nil
}

func (c *Client) decodeError(resource, ref string, err error) error {
	return errors.Newf("failed to decode %s %s: %w", resource, ref, err).
		Component(componentName).
		Category(errors.CategoryFileParsing).
		Context("resource", resource).
		Context("ref", ref).
		Build()
}

func (c *Client) contextError(ctx context.Context, resource, ref string) error {
	category := errors.CategoryCancellation
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		category = errors.CategoryTimeout
	}
	return errors.Newf("fetch %s %s: %w", resource, ref, ctx.Err()).
		Component(componentName).
		Category(category).
		Build()
}

// StatusCode extracts the upstream HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func isRetryable(err error) bool {
	if errors.IsCategory(err, errors.CategoryLimit) {
		return false
	}
	status := StatusCode(err)
	switch {
	case status == 0:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 400 && status < 500:
		return false
	default:
		return true
	}
}
