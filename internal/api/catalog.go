package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/query"
)

// RefreshRequest is the body of POST /catalog/refresh.
type RefreshRequest struct {
	Limit  int `json:"limit" validate:"required,min=1,max=2000"`
	Offset int `json:"offset" validate:"min=0"`
}

// RefreshResponse reports how many ids were processed.
type RefreshResponse struct {
	Cached    int `json:"cached"`
	Requested int `json:"requested"`
	Fetched   int `json:"fetched"`
	Skipped   int `json:"skipped"`
}

// RegionalRefreshRequest is the body of POST /catalog/refresh/regional.
type RegionalRefreshRequest struct {
	Dex  string `json:"dex" validate:"required,max=50"`
	Form string `json:"form" validate:"max=30"`
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (c *Controller) RefreshCatalog(ctx echo.Context) error {
	if ok, err := c.requireRefresher(ctx); !ok {
		return err
	}

	var req RefreshRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if err := ctx.Validate(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid refresh request", http.StatusBadRequest)
	}

	// A started refresh runs to completion even if the client goes away.
	result, err := c.Refresher.RefreshCatalog(context.WithoutCancel(ctx.Request().Context()), req.Limit, req.Offset)
	// Some ids may have been written even when the run failed.
	c.Query.Flush()
	if err != nil {
		return c.HandleServiceError(ctx, err, "Catalog refresh failed, try again")
	}

	c.logger.Info("catalog refreshed via API",
		logger.String("user_id", UserID(ctx)),
		logger.Int("cached", result.Cached))
	return ctx.JSON(http.StatusOK, RefreshResponse(result))
}

// RefreshRegional handles POST /api/v1/catalog/refresh/regional
func (c *Controller) RefreshRegional(ctx echo.Context) error {
	if ok, err := c.requireRefresher(ctx); !ok {
		return err
	}

	var req RegionalRefreshRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if err := ctx.Validate(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid regional refresh request", http.StatusBadRequest)
	}

	result, err := c.Refresher.RefreshRegional(context.WithoutCancel(ctx.Request().Context()), req.Dex, req.Form)
	c.Query.Flush()
	if err != nil {
		return c.HandleServiceError(ctx, err, "Regional refresh failed, try again")
	}
	return ctx.JSON(http.StatusOK, result)
}

// requireRefresher writes an error response and returns false when the
// caller is anonymous or refreshes are not wired.
func (c *Controller) requireRefresher(ctx echo.Context) (bool, error) {
	if UserID(ctx) == "" {
		return false, c.HandleServiceError(ctx, requireAuth(), "Authentication required")
	}
	if c.Refresher == nil {
		return false, c.HandleError(ctx, nil, "Catalog refresh is not available", http.StatusServiceUnavailable)
	}
	return true, nil
}

func requireAuth() error {
	return errors.New(query.ErrAuthRequired).
		Component("api").
		Category(errors.CategoryAuthentication).
		Build()
}
