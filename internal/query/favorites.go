package query

import (
	"context"
	"strings"

	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/pokedex"
)

// ErrAuthRequired is returned when an operation needs a resolved user.
var ErrAuthRequired = errors.NewStd("authentication required")

// AddFavorite stores (user, id). It fails when the Pokémon is not cached or
// the pair already exists.
func (s *Service) AddFavorite(ctx context.Context, userID string, id int) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}

	exists, err := s.store.Pokemon.Exists(ctx, id)
	if err != nil {
		return dbErr(err, "favorite_check_pokemon")
	}
	if !exists {
		return notFound(repository.ErrPokemonNotFound, id)
	}

	err = s.store.Favorites.Add(ctx, userID, id)
	switch {
	case errors.Is(err, repository.ErrFavoriteExists):
		return errors.Newf("pokemon %d is already a favorite: %w", id, err).
			Component(componentName).
			Category(errors.CategoryConflict).
			Context("pokemon_id", id).
			Build()
	case err != nil:
		return dbErr(err, "favorite_add")
	}

	s.logger.Debug("favorite added", logUser(userID), logID(id))
	return nil
}

// RemoveFavorite deletes (user, id) or fails with a not-found error.
func (s *Service) RemoveFavorite(ctx context.Context, userID string, id int) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}

	err = s.store.Favorites.Remove(ctx, userID, id)
	switch {
	case errors.Is(err, repository.ErrFavoriteNotFound):
		return errors.Newf("pokemon %d is not a favorite: %w", id, err).
			Component(componentName).
			Category(errors.CategoryNotFound).
			Context("pokemon_id", id).
			Build()
	case err != nil:
		return dbErr(err, "favorite_remove")
	}

	s.logger.Debug("favorite removed", logUser(userID), logID(id))
	return nil
}

// IsFavorite reports whether the user has favorited id.
func (s *Service) IsFavorite(ctx context.Context, userID string, id int) (bool, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return false, err
	}
	ok, err := s.store.Favorites.Exists(ctx, userID, id)
	return ok, dbErr(err, "favorite_exists")
}

// Favorites returns the user's favorited Pokémon in the order they were
// added. Favorites whose Pokémon is no longer cached are omitted.
func (s *Service) Favorites(ctx context.Context, userID string) ([]pokedex.Pokemon, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	favs, err := s.store.Favorites.List(ctx, userID)
	if err != nil {
		return nil, dbErr(err, "favorite_list")
	}
	if len(favs) == 0 {
		return []pokedex.Pokemon{}, nil
	}

	ids := make([]int, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.PokemonID)
	}

	rows, err := s.store.Pokemon.ByIDs(ctx, ids)
	if err != nil {
		return nil, dbErr(err, "favorite_join")
	}
	byID := make(map[int]pokedex.Pokemon, len(rows))
	for i := range rows {
		if _, dup := byID[rows[i].ID]; !dup {
			byID[rows[i].ID] = repository.PokemonRecord(&rows[i])
		}
	}

	out := make([]pokedex.Pokemon, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New(ErrAuthRequired).
			Component(componentName).
			Category(errors.CategoryAuthentication).
			Build()
	}
	return userID, nil
}
