package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// FavoriteStatusResponse is the body of GET /favorites/:id.
type FavoriteStatusResponse struct {
	PokemonID int  `json:"pokemonId"`
	Favorite  bool `json:"favorite"`
}

// ListFavorites handles GET /api/v1/favorites
func (c *Controller) ListFavorites(ctx echo.Context) error {
	list, err := c.Query.Favorites(ctx.Request().Context(), UserID(ctx))
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list favorites")
	}
	return ctx.JSON(http.StatusOK, pokemonViews(list))
}

// GetFavorite handles GET /api/v1/favorites/:id
func (c *Controller) GetFavorite(ctx echo.Context) error {
	id, err := pokemonIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pokemon id", http.StatusBadRequest)
	}

	ok, err := c.Query.IsFavorite(ctx.Request().Context(), UserID(ctx), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to check favorite")
	}
	return ctx.JSON(http.StatusOK, FavoriteStatusResponse{PokemonID: id, Favorite: ok})
}

// AddFavorite handles POST /api/v1/favorites/:id
func (c *Controller) AddFavorite(ctx echo.Context) error {
	id, err := pokemonIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pokemon id", http.StatusBadRequest)
	}

	if err := c.Query.AddFavorite(ctx.Request().Context(), UserID(ctx), id); err != nil {
		return c.HandleServiceError(ctx, err, "Failed to add favorite")
	}
	return ctx.JSON(http.StatusCreated, FavoriteStatusResponse{PokemonID: id, Favorite: true})
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id
func (c *Controller) RemoveFavorite(ctx echo.Context) error {
	id, err := pokemonIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pokemon id", http.StatusBadRequest)
	}

	if err := c.Query.RemoveFavorite(ctx.Request().Context(), UserID(ctx), id); err != nil {
		return c.HandleServiceError(ctx, err, "Failed to remove favorite")
	}
	return ctx.NoContent(http.StatusNoContent)
}
