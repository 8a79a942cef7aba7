package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding maps an environment variable onto a viper key
type envBinding struct {
	ConfigKey string
	EnvVar    string
	Validate  func(string) error
}

func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "POKEDEX_DEBUG", validateEnvBool},
		{"logging.defaultlevel", "POKEDEX_LOG_LEVEL", validateEnvLevel},

		{"database.type", "POKEDEX_DATABASE_TYPE", validateEnvDatabaseType},
		{"database.sqlite.path", "POKEDEX_SQLITE_PATH", nil},
		{"database.mysql.host", "POKEDEX_MYSQL_HOST", nil},
		{"database.mysql.port", "POKEDEX_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "POKEDEX_MYSQL_USERNAME", nil},
		{"database.mysql.password", "POKEDEX_MYSQL_PASSWORD", nil},
		{"database.mysql.passwordfile", "POKEDEX_MYSQL_PASSWORD_FILE", nil},
		{"database.mysql.database", "POKEDEX_MYSQL_DATABASE", nil},

		{"pokeapi.baseurl", "POKEDEX_POKEAPI_BASEURL", nil},
		{"pokeapi.timeout", "POKEDEX_POKEAPI_TIMEOUT", validateEnvDuration},
		{"pokeapi.retrybackoff", "POKEDEX_POKEAPI_RETRYBACKOFF", validateEnvDuration},

		{"catalog.batchdelay", "POKEDEX_CATALOG_BATCHDELAY", validateEnvDuration},
		{"catalog.paldeabatchdelay", "POKEDEX_CATALOG_PALDEABATCHDELAY", validateEnvDuration},

		{"webserver.port", "POKEDEX_PORT", validateEnvPort},
		{"security.jwtsecret", "POKEDEX_JWT_SECRET", nil},
		{"security.jwtsecretfile", "POKEDEX_JWT_SECRET_FILE", nil},
		{"sentry.enabled", "POKEDEX_SENTRY_ENABLED", validateEnvBool},
		{"sentry.dsn", "POKEDEX_SENTRY_DSN", nil},
	}
}

// bindEnvVars binds every environment variable and validates values that are set
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}
		if binding.Validate == nil {
			continue
		}
		if value := os.Getenv(binding.EnvVar); value != "" {
			if err := binding.Validate(value); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, value, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("must be one of trace, debug, info, warn, error")
}

func validateEnvDatabaseType(value string) error {
	switch value {
	case "sqlite", "mysql":
		return nil
	}
	return fmt.Errorf("must be sqlite or mysql")
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}

func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("must be a duration such as 250ms")
	}
	return nil
}

// configureEnvironmentVariables enables POKEDEX_ prefixed overrides for nested keys
func configureEnvironmentVariables() error {
	viper.SetEnvPrefix("POKEDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return bindEnvVars()
}
