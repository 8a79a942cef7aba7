package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/errors"
)

// ProfileRepository stores user profiles.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*entities.Profile, error)
	// Save upserts the profile keyed by UserID.
	Save(ctx context.Context, p *entities.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	var p entities.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, p *entities.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_pokemon_id", "updated_at"}),
		}).
		Create(p).Error
}
