package query

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
)

// MaxDisplayNameLength is the longest accepted display name, in characters.
const MaxDisplayNameLength = 50

// Profile is a user's customization. Users without a saved profile get a
// default one named after their user id.
type Profile struct {
	UserID          string     `json:"userId"`
	DisplayName     string     `json:"displayName"`
	AvatarPokemonID *int       `json:"avatarPokemonId,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ProfileUpdate replaces the editable profile fields.
type ProfileUpdate struct {
	DisplayName     string
	AvatarPokemonID *int
}

// GetProfile returns the stored profile or the default one.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	e, err := s.store.Profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &Profile{UserID: userID, DisplayName: userID}, nil
	}
	if err != nil {
		return nil, dbErr(err, "profile_get")
	}
	return profileFromEntity(e), nil
}

// UpdateProfile validates and upserts the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(update.DisplayName)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxDisplayNameLength {
		return nil, errors.Newf("display name must be 1 to %d characters", MaxDisplayNameLength).
			Component(componentName).
			Category(errors.CategoryValidation).
			Context("length", n).
			Build()
	}

	if update.AvatarPokemonID != nil {
		ok, err := s.store.Pokemon.Exists(ctx, *update.AvatarPokemonID)
		if err != nil {
			return nil, dbErr(err, "profile_check_avatar")
		}
		if !ok {
			return nil, errors.Newf("avatar pokemon %d is not cached", *update.AvatarPokemonID).
				Component(componentName).
				Category(errors.CategoryValidation).
				Context("pokemon_id", *update.AvatarPokemonID).
				Build()
		}
	}

	e := &entities.Profile{
		UserID:          userID,
		DisplayName:     name,
		AvatarPokemonID: update.AvatarPokemonID,
	}
	if err := s.store.Profiles.Save(ctx, e); err != nil {
		return nil, dbErr(err, "profile_save")
	}

	s.logger.Info("profile updated", logUser(userID))
	return s.GetProfile(ctx, userID)
}

func profileFromEntity(e *entities.Profile) *Profile {
	p := &Profile{
		UserID:          e.UserID,
		DisplayName:     e.DisplayName,
		AvatarPokemonID: e.AvatarPokemonID,
	}
	if !e.UpdatedAt.IsZero() {
		updated := e.UpdatedAt
		p.UpdatedAt = &updated
	}
	return p
}

func logUser(userID string) logger.Field { return logger.String("user_id", userID) }
func logID(id int) logger.Field          { return logger.Int("pokemon_id", id) }
