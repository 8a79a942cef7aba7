package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/catalog"
	"github.com/tphakala/pokedex-go/internal/datastore"
	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/pokedex"
	"github.com/tphakala/pokedex-go/internal/query"
)

const (
	testSecret = "test-secret"
	testIssuer = "pokedex-test"
)

type fakeRefresher struct {
	mu       sync.Mutex
	calls    int
	result   catalog.Result
	regional catalog.RegionalResult
	err      error
	onCall   func()
	ctxErrs  []error
}

func (f *fakeRefresher) RefreshCatalog(ctx context.Context, limit, offset int) (catalog.Result, error) {
	f.mu.Lock()
	f.calls++
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return catalog.Result{}, f.err
	}
	r := f.result
	if r.Cached == 0 {
		r = catalog.Result{Cached: limit, Requested: limit, Fetched: limit}
	}
	return r, nil
}

func (f *fakeRefresher) RefreshRegional(ctx context.Context, dex, _ string) (catalog.RegionalResult, error) {
	f.mu.Lock()
	f.calls++
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	if f.err != nil {
		return catalog.RegionalResult{}, f.err
	}
	r := f.regional
	r.Dex = dex
	return r, nil
}

type recordedRequest struct {
	method, path string
	status       int
}

type fakeHTTPRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	errors   []string
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, path string, statusCode int, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, path, statusCode})
}

func (f *fakeHTTPRecorder) RecordHTTPRequestError(_, _, errorType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, errorType)
}

func (f *fakeHTTPRecorder) RecordHTTPResponseSize(string, string, int64) {}

type testEnv struct {
	echo      *echo.Echo
	ctrl      *Controller
	store     *repository.Store
	refresher *fakeRefresher
	auth      *TokenAuthenticator
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	log := logger.NewSlogLogger(nil, logger.LogLevelError, nil)

	m, err := datastore.NewSQLiteManager(filepath.Join(t.TempDir(), "api.db"), log)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	t.Cleanup(func() { _ = m.Close() })
	store := datastore.NewStore(m)

	env := &testEnv{
		echo:      echo.New(),
		store:     store,
		refresher: &fakeRefresher{},
		auth:      NewTokenAuthenticator(testSecret, testIssuer),
	}
	base := []Option{
		WithLogger(log),
		WithAuthenticator(env.auth),
		WithRefresher(env.refresher),
		WithVersion("test"),
	}
	env.ctrl = NewController(env.echo, query.NewService(store, time.Minute, log), append(base, opts...)...)
	return env
}

func (env *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := env.auth.Issue(userID, time.Hour)
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, APIPrefix+path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, APIPrefix+path, http.NoBody)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seed(t *testing.T, id int, name string, types ...string) {
	t.Helper()
	p := pokedex.Pokemon{
		ID:         id,
		Name:       name,
		Types:      types,
		Generation: pokedex.GenerationFromID(id),
		CachedAt:   time.Now().UTC(),
	}
	require.NoError(t, env.store.Pokemon.Save(t.Context(), repository.PokemonEntity(&p)))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestListPokemonFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 4, "charmander", "fire")
	env.seed(t, 1, "bulbasaur", "grass", "poison")
	env.seed(t, 155, "cyndaquil", "fire")
	env.seed(t, 250, "ho-oh", "fire", "flying")

	rec := env.do(t, http.MethodGet, "/pokemon?types=FIRE&limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[PokemonListResponse](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Pokemon, 2)
	assert.Equal(t, 4, page.Pokemon[0].ID)
	assert.Equal(t, "Charmander", page.Pokemon[0].DisplayName)

	rec = env.do(t, http.MethodGet, "/pokemon?types=fire&offset=2", "", "")
	page = decode[PokemonListResponse](t, rec)
	require.Len(t, page.Pokemon, 1)
	assert.Equal(t, "Ho Oh", page.Pokemon[0].DisplayName)
	assert.False(t, page.HasMore)

	rec = env.do(t, http.MethodGet, "/pokemon?search=saur&generation=1", "", "")
	page = decode[PokemonListResponse](t, rec)
	require.Len(t, page.Pokemon, 1)
	assert.Equal(t, "bulbasaur", page.Pokemon[0].Name)
}

func TestListPokemonRejectsBadParams(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"generation too high", "?generation=10", "generation must be at most 9"},
		{"negative offset", "?offset=-1", "offset must be at least 0"},
		{"oversized limit", "?limit=201", "limit must be at most 200"},
		{"non numeric limit", "?limit=abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/pokemon"+tt.query, "", "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Len(t, resp.CorrelationID, 12)
			if tt.want != "" {
				assert.Contains(t, resp.Error, tt.want)
			}
		})
	}
}

func TestGetPokemon(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 25, "pikachu", "electric")

	rec := env.do(t, http.MethodGet, "/pokemon/25", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[PokemonDetailResponse](t, rec)
	assert.Equal(t, "pikachu", detail.Pokemon.Name)
	assert.Equal(t, "Pikachu", detail.Pokemon.DisplayName)
	assert.Nil(t, detail.Species)

	rec = env.do(t, http.MethodGet, "/pokemon/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, bad := range []string{"abc", "0", "-3"} {
		rec = env.do(t, http.MethodGet, "/pokemon/"+bad, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestGetTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	require.NoError(t, env.store.Types.Create(ctx, &entities.PokemonType{Name: "water", Color: "#6890F0"}))
	require.NoError(t, env.store.Types.Create(ctx, &entities.PokemonType{Name: "fire", Color: "#F08030"}))

	rec := env.do(t, http.MethodGet, "/types", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	types := decode[[]TypeView](t, rec)
	require.Len(t, types, 2)
	assert.Equal(t, "fire", types[0].Name)
	assert.Equal(t, "Fire", types[0].DisplayName)
	assert.Equal(t, "#6890F0", types[1].Color)
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/favorites", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, APIPrefix+"/favorites", http.NoBody)
		req.Header.Set(echo.HeaderAuthorization, "Token abc")
		rec := httptest.NewRecorder()
		env.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := NewTokenAuthenticator("another-secret", testIssuer)
		tok, err := other.Issue("ash", time.Hour)
		require.NoError(t, err)
		rec := env.do(t, http.MethodGet, "/favorites", "", tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("public routes ignore missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/pokemon", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestFavoritesFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 1, "bulbasaur", "grass")
	env.seed(t, 7, "squirtle", "water")
	tok := env.token(t, "ash")

	rec := env.do(t, http.MethodPost, "/favorites/7", "", tok)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/favorites/1", "", tok)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/favorites/7", "", tok)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/favorites/999", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/favorites", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]PokemonView](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, 7, list[0].ID)
	assert.Equal(t, 1, list[1].ID)

	rec = env.do(t, http.MethodGet, "/favorites/7", "", tok)
	status := decode[FavoriteStatusResponse](t, rec)
	assert.True(t, status.Favorite)

	rec = env.do(t, http.MethodGet, "/favorites/7", "", env.token(t, "misty"))
	status = decode[FavoriteStatusResponse](t, rec)
	assert.False(t, status.Favorite)

	rec = env.do(t, http.MethodDelete, "/favorites/7", "", tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/favorites/7", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 25, "pikachu", "electric")
	tok := env.token(t, "ash")

	rec := env.do(t, http.MethodGet, "/profile", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[query.Profile](t, rec)
	assert.Equal(t, "ash", profile.DisplayName)
	assert.Nil(t, profile.AvatarPokemonID)

	rec = env.do(t, http.MethodPut, "/profile", `{"displayName":"Ash Ketchum","avatarPokemonId":25}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile = decode[query.Profile](t, rec)
	assert.Equal(t, "Ash Ketchum", profile.DisplayName)
	require.NotNil(t, profile.AvatarPokemonID)
	assert.Equal(t, 25, *profile.AvatarPokemonID)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty name", `{"displayName":""}`, http.StatusBadRequest},
		{"name too long", `{"displayName":"` + strings.Repeat("x", 51) + `"}`, http.StatusBadRequest},
		{"uncached avatar", `{"displayName":"Ash","avatarPokemonId":999}`, http.StatusBadRequest},
		{"broken json", `{"displayName":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, "/profile", tt.body, tok)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec = env.do(t, http.MethodPut, "/profile", `{"displayName":""}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshCatalog(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "ash")

	rec := env.do(t, http.MethodPost, "/catalog/refresh", `{"limit":10}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/catalog/refresh", `{"limit":0}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/catalog/refresh", `{"limit":10,"offset":20}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[RefreshResponse](t, rec)
	assert.Equal(t, 10, resp.Cached)
	assert.Equal(t, 1, env.refresher.calls)
}

func TestRefreshFlushesQueryCache(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 1, "bulbasaur", "grass")
	tok := env.token(t, "ash")

	rec := env.do(t, http.MethodGet, "/pokemon", "", "")
	assert.Equal(t, 1, decode[PokemonListResponse](t, rec).Total)

	env.refresher.onCall = func() { env.seed(t, 2, "ivysaur", "grass") }
	rec = env.do(t, http.MethodPost, "/catalog/refresh", `{"limit":2}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/pokemon", "", "")
	assert.Equal(t, 2, decode[PokemonListResponse](t, rec).Total)
}

func TestRefreshErrors(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "ash")

	env.refresher.err = errors.Newf("failed to cache 1 of 8 pokemon").
		Component("catalog").
		Category(errors.CategoryCatalogBatch).
		Build()
	rec := env.do(t, http.MethodPost, "/catalog/refresh", `{"limit":8}`, tok)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "failed to cache 1 of 8 pokemon")

	noRefresh := newTestEnv(t, WithRefresher(nil))
	rec = noRefresh.do(t, http.MethodPost, "/catalog/refresh", `{"limit":8}`, noRefresh.token(t, "ash"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshRegional(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "ash")
	env.refresher.regional = catalog.RegionalResult{Entries: 400, Cached: 390, Skipped: 8, Failed: 2}

	rec := env.do(t, http.MethodPost, "/catalog/refresh/regional", `{"dex":"paldea","form":"paldea"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[catalog.RegionalResult](t, rec)
	assert.Equal(t, "paldea", result.Dex)
	assert.Equal(t, 2, result.Failed)

	rec = env.do(t, http.MethodPost, "/catalog/refresh/regional", `{"form":"paldea"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPMetricsRecorded(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	env := newTestEnv(t, WithHTTPMetrics(rec, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})))

	resp := env.do(t, http.MethodGet, "/pokemon/404", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "# metrics")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, APIPrefix + "/pokemon/:id", http.StatusNotFound}, rec.requests[0])
	assert.Equal(t, []string{string(errors.CategoryNotFound)}, rec.errors)
}

func TestRefreshOutlivesClientDisconnect(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "ash")

	for _, tt := range []struct{ path, body string }{
		{"/catalog/refresh", `{"limit":8}`},
		{"/catalog/refresh/regional", `{"dex":"paldea"}`},
	} {
		reqCtx, cancel := context.WithCancel(t.Context())
		cancel()

		req := httptest.NewRequestWithContext(reqCtx, http.MethodPost, APIPrefix+tt.path, strings.NewReader(tt.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		rec := httptest.NewRecorder()
		env.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
	}

	env.refresher.mu.Lock()
	defer env.refresher.mu.Unlock()
	require.Len(t, env.refresher.ctxErrs, 2)
	for _, err := range env.refresher.ctxErrs {
		assert.NoError(t, err)
	}
}
