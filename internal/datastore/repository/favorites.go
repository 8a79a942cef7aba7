package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
)

// FavoriteRepository manages per-user favorites.
type FavoriteRepository interface {
	// Add stores the pair or returns ErrFavoriteExists.
	Add(ctx context.Context, userID string, pokemonID int) error
	// Remove deletes the pair or returns ErrFavoriteNotFound.
	Remove(ctx context.Context, userID string, pokemonID int) error
	// List returns the user's favorites in creation order.
	List(ctx context.Context, userID string) ([]entities.Favorite, error)
	Exists(ctx context.Context, userID string, pokemonID int) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID string, pokemonID int) error {
	fav := entities.Favorite{UserID: userID, PokemonID: pokemonID}
	err := r.db.WithContext(ctx).Create(&fav).Error
	if isDuplicateKey(err) {
		return ErrFavoriteExists
	}
	return err
}

func (r *favoriteRepository) Remove(ctx context.Context, userID string, pokemonID int) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND pokemon_id = ?", userID, pokemonID).
		Delete(&entities.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (r *favoriteRepository) List(ctx context.Context, userID string) ([]entities.Favorite, error) {
	var list []entities.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *favoriteRepository) Exists(ctx context.Context, userID string, pokemonID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Favorite{}).
		Where("user_id = ? AND pokemon_id = ?", userID, pokemonID).
		Count(&count).Error
	return count > 0, err
}
