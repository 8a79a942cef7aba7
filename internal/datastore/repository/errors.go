package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/tphakala/pokedex-go/internal/errors"
)

// Sentinel errors for repository operations.
var (
	// ErrPokemonNotFound indicates the requested Pokémon is not cached.
	ErrPokemonNotFound = errors.NewStd("pokemon not found")

	// ErrSpeciesNotFound indicates no species record exists for the id.
	ErrSpeciesNotFound = errors.NewStd("species not found")

	// ErrTypeNotFound indicates the type name is unknown.
	ErrTypeNotFound = errors.NewStd("type not found")

	// ErrFavoriteExists indicates the (user, pokemon) pair is already stored.
	ErrFavoriteExists = errors.NewStd("favorite already exists")

	// ErrFavoriteNotFound indicates the (user, pokemon) pair does not exist.
	ErrFavoriteNotFound = errors.NewStd("favorite not found")

	// ErrProfileNotFound indicates the user has not saved a profile yet.
	ErrProfileNotFound = errors.NewStd("profile not found")
)

const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique constraint violation from
// either supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
