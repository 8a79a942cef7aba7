package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/errors"
)

// TypeRepository stores the type color lookup table.
type TypeRepository interface {
	// List returns all types ordered by name.
	List(ctx context.Context) ([]entities.PokemonType, error)
	Get(ctx context.Context, name string) (*entities.PokemonType, error)
	Create(ctx context.Context, t *entities.PokemonType) error
	// UpdateColor patches the color of an existing type in place.
	UpdateColor(ctx context.Context, name, color string) error
}

type typeRepository struct {
	db *gorm.DB
}

// NewTypeRepository creates a TypeRepository.
func NewTypeRepository(db *gorm.DB) TypeRepository {
	return &typeRepository{db: db}
}

func (r *typeRepository) List(ctx context.Context) ([]entities.PokemonType, error) {
	var list []entities.PokemonType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *typeRepository) Get(ctx context.Context, name string) (*entities.PokemonType, error) {
	var t entities.PokemonType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *typeRepository) Create(ctx context.Context, t *entities.PokemonType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *typeRepository) UpdateColor(ctx context.Context, name, color string) error {
	result := r.db.WithContext(ctx).Model(&entities.PokemonType{}).
		Where("name = ?", name).
		Update("color", color)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTypeNotFound
	}
	return nil
}
