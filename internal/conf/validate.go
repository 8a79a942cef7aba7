package conf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tphakala/pokedex-go/internal/errors"
)

// ValidationError collects every problem found in a Settings value
type ValidationError struct {
	Errors []string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings checks settings for values that would break startup.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	switch settings.Database.Type {
	case "sqlite":
		if settings.Database.SQLite.Path == "" {
			ve.Errors = append(ve.Errors, "database.sqlite.path is required")
		}
	case "mysql":
		if settings.Database.MySQL.Host == "" || settings.Database.MySQL.Database == "" {
			ve.Errors = append(ve.Errors, "database.mysql.host and database.mysql.database are required")
		}
	default:
		ve.Errors = append(ve.Errors, fmt.Sprintf("unsupported database type %q", settings.Database.Type))
	}

	if u, err := url.Parse(settings.PokeAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		ve.Errors = append(ve.Errors, fmt.Sprintf("pokeapi.baseurl %q is not an absolute URL", settings.PokeAPI.BaseURL))
	}
	if settings.PokeAPI.RateLimit < 0 {
		ve.Errors = append(ve.Errors, "pokeapi.ratelimit must not be negative")
	}
	if settings.PokeAPI.RetryBackoff < 0 {
		ve.Errors = append(ve.Errors, "pokeapi.retrybackoff must not be negative")
	}

	c := settings.Catalog
	if c.MaxID < 1 {
		ve.Errors = append(ve.Errors, "catalog.maxid must be positive")
	}
	if c.BatchSize < 1 || c.PaldeaBatchSize < 1 {
		ve.Errors = append(ve.Errors, "catalog batch sizes must be positive")
	}
	if c.BatchDelay < 0 || c.PaldeaBatchDelay < 0 {
		ve.Errors = append(ve.Errors, "catalog batch delays must not be negative")
	}
	if c.MoveLimit < 0 {
		ve.Errors = append(ve.Errors, "catalog.movelimit must not be negative")
	}

	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "sentry.dsn is required when sentry is enabled")
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Category(errors.CategoryConfiguration).
			Context("error_count", len(ve.Errors)).
			Build()
	}
	return nil
}
