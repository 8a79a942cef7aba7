package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/conf"
	"github.com/tphakala/pokedex-go/internal/datastore"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/query"
)

func TestConfigFromSettings(t *testing.T) {
	settings := &conf.Settings{}
	settings.WebServer.Host = "127.0.0.1"
	settings.WebServer.Port = "9090"

	cfg := ConfigFromSettings(settings)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)

	cfg.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestServerServesAPIWithCORS(t *testing.T) {
	log := logger.NewSlogLogger(nil, logger.LogLevelError, nil)
	m, err := datastore.NewSQLiteManager(filepath.Join(t.TempDir(), "server.db"), log)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	t.Cleanup(func() { _ = m.Close() })

	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://dex.example"}
	srv := NewWithConfig(cfg, query.NewService(datastore.NewStore(m), time.Minute, log), WithLogger(log))
	require.NotNil(t, srv.Controller())
	assert.Equal(t, cfg.WriteTimeout, srv.Echo().Server.WriteTimeout)

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/health", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "https://dex.example")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://dex.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
}
