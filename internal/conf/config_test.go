package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	settings, err := Load(writeConfig(t, "debug: false\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", settings.Database.Type)
	assert.Equal(t, "https://pokeapi.co/api/v2", settings.PokeAPI.BaseURL)
	assert.Equal(t, 500*time.Millisecond, settings.PokeAPI.RetryBackoff)
	assert.Equal(t, 1025, settings.Catalog.MaxID)
	assert.Equal(t, 8, settings.Catalog.BatchSize)
	assert.Equal(t, 250*time.Millisecond, settings.Catalog.BatchDelay)
	assert.Equal(t, 906, settings.Catalog.PaldeaStartID)
	assert.Equal(t, 16, settings.Catalog.PaldeaBatchSize)
	assert.Equal(t, 100*time.Millisecond, settings.Catalog.PaldeaBatchDelay)
	assert.Equal(t, 20, settings.Catalog.MoveLimit)
	assert.Equal(t, 5*time.Minute, settings.Query.CacheTTL)
	assert.True(t, settings.Logging.Console.Enabled)
	assert.Same(t, settings, GetSettings())
}

func TestLoadFileOverrides(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `
database:
  type: mysql
  mysql:
    host: db.internal
    database: dex
catalog:
  batchdelay: 50ms
  batchsize: 4
logging:
  modulelevels:
    datastore: trace
`)
	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", settings.Database.Type)
	assert.Equal(t, "db.internal", settings.Database.MySQL.Host)
	assert.Equal(t, 3306, settings.Database.MySQL.Port)
	assert.Equal(t, 50*time.Millisecond, settings.Catalog.BatchDelay)
	assert.Equal(t, 4, settings.Catalog.BatchSize)
	assert.Equal(t, "trace", settings.Logging.ModuleLevels["datastore"])
}

func TestEnvironmentOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("POKEDEX_PORT", "9090")
	t.Setenv("POKEDEX_CATALOG_BATCHDELAY", "1s")
	t.Setenv("POKEDEX_JWT_SECRET", "s3cret")
	t.Setenv("POKEDEX_POKEAPI_RETRYBACKOFF", "2s")

	settings, err := Load(writeConfig(t, "webserver:\n  port: \"8080\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", settings.WebServer.Port)
	assert.Equal(t, time.Second, settings.Catalog.BatchDelay)
	assert.Equal(t, "s3cret", settings.Security.JWTSecret)
	assert.Equal(t, 2*time.Second, settings.PokeAPI.RetryBackoff)
}

func TestInvalidEnvironmentValue(t *testing.T) {
	resetViper(t)
	t.Setenv("POKEDEX_DATABASE_TYPE", "postgres")

	_, err := Load(writeConfig(t, "debug: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POKEDEX_DATABASE_TYPE")
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			Database: DatabaseSettings{Type: "sqlite", SQLite: SQLiteSettings{Path: "x.db"}},
			PokeAPI:  PokeAPISettings{BaseURL: "https://pokeapi.co/api/v2"},
			Catalog: CatalogSettings{
				MaxID: 1025, BatchSize: 8, PaldeaBatchSize: 16,
				BatchDelay: 250 * time.Millisecond, PaldeaBatchDelay: 100 * time.Millisecond,
			},
		}
	}

	require.NoError(t, ValidateSettings(valid()))

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"unknown database", func(s *Settings) { s.Database.Type = "oracle" }, "unsupported database type"},
		{"relative base url", func(s *Settings) { s.PokeAPI.BaseURL = "/api/v2" }, "not an absolute URL"},
		{"negative retry backoff", func(s *Settings) { s.PokeAPI.RetryBackoff = -time.Second }, "retrybackoff must not be negative"},
		{"zero batch", func(s *Settings) { s.Catalog.BatchSize = 0 }, "batch sizes"},
		{"negative delay", func(s *Settings) { s.Catalog.BatchDelay = -time.Second }, "batch delays"},
		{"sentry without dsn", func(s *Settings) { s.Sentry.Enabled = true }, "sentry.dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
		})
	}
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	resetViper(t)
	settings, err := Load(writeConfig(t, "debug: false\n"))
	require.NoError(t, err)

	settings.Database.SQLite.Path = "dex.db"
	settings.Catalog.BatchDelay = 75 * time.Millisecond
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveYAMLConfig(path, settings))

	viper.Reset()
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dex.db", loaded.Database.SQLite.Path)
	assert.Equal(t, 75*time.Millisecond, loaded.Catalog.BatchDelay)
	assert.Equal(t, settings.PokeAPI, loaded.PokeAPI)
}

func TestSecretsResolvedFromFileAndEnv(t *testing.T) {
	resetViper(t)
	secretPath := filepath.Join(t.TempDir(), "jwt")
	require.NoError(t, os.WriteFile(secretPath, []byte("file-secret\n"), 0o600))
	t.Setenv("POKEDEX_JWT_SECRET_FILE", secretPath)
	t.Setenv("DEX_DB_PASSWORD", "hunter2")

	settings, err := Load(writeConfig(t, "database:\n  mysql:\n    password: \"${DEX_DB_PASSWORD}\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "file-secret", settings.Security.JWTSecret)
	assert.Equal(t, "hunter2", settings.Database.MySQL.Password)
}

func TestMissingSecretReferenceFails(t *testing.T) {
	resetViper(t)

	_, err := Load(writeConfig(t, "security:\n  jwtsecret: \"${DEX_UNSET_SECRET}\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEX_UNSET_SECRET")
}
