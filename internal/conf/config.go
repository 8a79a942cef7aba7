// Package conf loads and validates service settings using viper.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/secrets"
)

// Settings is the root configuration structure
type Settings struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`

	Logging   logger.LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Database  DatabaseSettings     `mapstructure:"database" yaml:"database"`
	PokeAPI   PokeAPISettings      `mapstructure:"pokeapi" yaml:"pokeapi"`
	Catalog   CatalogSettings      `mapstructure:"catalog" yaml:"catalog"`
	Query     QuerySettings        `mapstructure:"query" yaml:"query"`
	WebServer WebServerSettings    `mapstructure:"webserver" yaml:"webserver"`
	Security  SecuritySettings     `mapstructure:"security" yaml:"security"`
	Sentry    SentrySettings       `mapstructure:"sentry" yaml:"sentry"`
}

// DatabaseSettings selects and configures the cache store backend
type DatabaseSettings struct {
	Type   string         `mapstructure:"type" yaml:"type"` // sqlite or mysql
	SQLite SQLiteSettings `mapstructure:"sqlite" yaml:"sqlite"`
	MySQL  MySQLSettings  `mapstructure:"mysql" yaml:"mysql"`
}

type SQLiteSettings struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type MySQLSettings struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Username     string `mapstructure:"username" yaml:"username"`
	Password     string `mapstructure:"password" yaml:"password"`         // literal or ${ENV} reference
	PasswordFile string `mapstructure:"passwordfile" yaml:"passwordfile"` // takes precedence over Password
	Database     string `mapstructure:"database" yaml:"database"`
}

// PokeAPISettings configures the upstream client
type PokeAPISettings struct {
	BaseURL      string        `mapstructure:"baseurl" yaml:"baseurl"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL     time.Duration `mapstructure:"cachettl" yaml:"cachettl"`   // in-memory document cache
	RateLimit    float64       `mapstructure:"ratelimit" yaml:"ratelimit"` // requests per second, 0 disables
	Burst        int           `mapstructure:"burst" yaml:"burst"`
	MaxRetries   int           `mapstructure:"maxretries" yaml:"maxretries"`
	RetryBackoff time.Duration `mapstructure:"retrybackoff" yaml:"retrybackoff"` // grows linearly per attempt
	UserAgent    string        `mapstructure:"useragent" yaml:"useragent"`
}

// CatalogSettings tunes bulk refresh batching
type CatalogSettings struct {
	MaxID            int           `mapstructure:"maxid" yaml:"maxid"`
	BatchSize        int           `mapstructure:"batchsize" yaml:"batchsize"`
	BatchDelay       time.Duration `mapstructure:"batchdelay" yaml:"batchdelay"`
	PaldeaStartID    int           `mapstructure:"paldeastartid" yaml:"paldeastartid"`
	PaldeaBatchSize  int           `mapstructure:"paldeabatchsize" yaml:"paldeabatchsize"`
	PaldeaBatchDelay time.Duration `mapstructure:"paldeabatchdelay" yaml:"paldeabatchdelay"`
	MoveLimit        int           `mapstructure:"movelimit" yaml:"movelimit"`
}

type QuerySettings struct {
	CacheTTL time.Duration `mapstructure:"cachettl" yaml:"cachettl"`
}

type WebServerSettings struct {
	Host  string `mapstructure:"host" yaml:"host"`
	Port  string `mapstructure:"port" yaml:"port"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// SecuritySettings configures bearer token verification
type SecuritySettings struct {
	JWTSecret     string `mapstructure:"jwtsecret" yaml:"jwtsecret"`         // literal or ${ENV} reference
	JWTSecretFile string `mapstructure:"jwtsecretfile" yaml:"jwtsecretfile"` // takes precedence over JWTSecret
	Issuer        string `mapstructure:"issuer" yaml:"issuer"`
}

type SentrySettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the config file (explicit path or the default search paths)
// plus POKEDEX_* environment variables, and validates the result.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := resolveSecrets(settings); err != nil {
		return nil, fmt.Errorf("error resolving secrets: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settings, nil
}

// resolveSecrets replaces secret fields with their file or ${ENV} values.
func resolveSecrets(settings *Settings) error {
	jwtSecret, err := secrets.Resolve(settings.Security.JWTSecretFile, settings.Security.JWTSecret)
	if err != nil {
		return fmt.Errorf("security.jwtsecret: %w", err)
	}
	settings.Security.JWTSecret = jwtSecret

	password, err := secrets.Resolve(settings.Database.MySQL.PasswordFile, settings.Database.MySQL.Password)
	if err != nil {
		return fmt.Errorf("database.mysql.password: %w", err)
	}
	settings.Database.MySQL.Password = password
	return nil
}

// GetSettings returns the most recently loaded settings
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

func initViper(configFile string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return err
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}
	return nil
}

// createDefaultConfig writes the current defaults as YAML to dir/config.yaml
func createDefaultConfig(dir string) error {
	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling defaults: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := SaveYAMLConfig(configPath, settings); err != nil {
		return err
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// SaveYAMLConfig writes settings to configPath atomically.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml, in order.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case "windows":
		return []string{".", filepath.Join(homeDir, "AppData", "Roaming", "pokedex")}, nil
	default:
		return []string{filepath.Join(homeDir, ".config", "pokedex"), "/etc/pokedex", "."}, nil
	}
}
