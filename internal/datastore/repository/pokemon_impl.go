package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/errors"
)

type pokemonRepository struct {
	db *gorm.DB
}

// NewPokemonRepository creates a PokemonRepository.
func NewPokemonRepository(db *gorm.DB) PokemonRepository {
	return &pokemonRepository{db: db}
}

func (r *pokemonRepository) Get(ctx context.Context, id int) (*entities.Pokemon, error) {
	var p entities.Pokemon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPokemonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pokemonRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Pokemon{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *pokemonRepository) Save(ctx context.Context, p *entities.Pokemon) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

func (r *pokemonRepository) All(ctx context.Context) ([]entities.Pokemon, error) {
	var list []entities.Pokemon
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *pokemonRepository) ByGeneration(ctx context.Context, gen int) ([]entities.Pokemon, error) {
	var list []entities.Pokemon
	err := r.db.WithContext(ctx).Where("generation = ?", gen).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *pokemonRepository) ByIDRange(ctx context.Context, start, end int) ([]entities.Pokemon, error) {
	var list []entities.Pokemon
	err := r.db.WithContext(ctx).Where("id BETWEEN ? AND ?", start, end).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *pokemonRepository) ByIDs(ctx context.Context, ids []int) ([]entities.Pokemon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []entities.Pokemon
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *pokemonRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Pokemon{}).Count(&count).Error
	return count, err
}

type speciesRepository struct {
	db *gorm.DB
}

// NewSpeciesRepository creates a SpeciesRepository.
func NewSpeciesRepository(db *gorm.DB) SpeciesRepository {
	return &speciesRepository{db: db}
}

func (r *speciesRepository) Get(ctx context.Context, id int) (*entities.Species, error) {
	var s entities.Species
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSpeciesNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *speciesRepository) Save(ctx context.Context, s *entities.Species) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
