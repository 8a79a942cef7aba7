package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/pokedex-go/internal/query"
)

// UpdateProfileRequest is the body of PUT /profile.
type UpdateProfileRequest struct {
	DisplayName     string `json:"displayName" validate:"required,max=50"`
	AvatarPokemonID *int   `json:"avatarPokemonId" validate:"omitempty,min=1"`
}

// GetProfile handles GET /api/v1/profile
func (c *Controller) GetProfile(ctx echo.Context) error {
	profile, err := c.Query.GetProfile(ctx.Request().Context(), UserID(ctx))
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to load profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (c *Controller) UpdateProfile(ctx echo.Context) error {
	// Check the user first so anonymous callers get 401 rather than 400.
	if UserID(ctx) == "" {
		return c.HandleServiceError(ctx, requireAuth(), "Authentication required")
	}

	var req UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if err := ctx.Validate(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid profile", http.StatusBadRequest)
	}

	profile, err := c.Query.UpdateProfile(ctx.Request().Context(), UserID(ctx), query.ProfileUpdate{
		DisplayName:     req.DisplayName,
		AvatarPokemonID: req.AvatarPokemonID,
	})
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to update profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}
