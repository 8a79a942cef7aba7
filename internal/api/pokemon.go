package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/pokedex"
	"github.com/tphakala/pokedex-go/internal/query"
)

// ListRequest holds the query parameters of GET /pokemon.
type ListRequest struct {
	Limit      int    `query:"limit" validate:"min=0,max=200"`
	Offset     int    `query:"offset" validate:"min=0"`
	Search     string `query:"search" validate:"max=100"`
	Types      string `query:"types" validate:"max=200"` // comma separated
	Generation int    `query:"generation" validate:"min=0,max=9"`
}

// PokemonView is a cached Pokémon with a human-friendly name.
type PokemonView struct {
	pokedex.Pokemon
	DisplayName string `json:"displayName"`
}

// TypeView is a type with a human-friendly name.
type TypeView struct {
	pokedex.Type
	DisplayName string `json:"displayName"`
}

// PokemonListResponse is the body of GET /pokemon.
type PokemonListResponse struct {
	Pokemon []PokemonView `json:"pokemon"`
	Total   int           `json:"total"`
	HasMore bool          `json:"hasMore"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// PokemonDetailResponse is the body of GET /pokemon/:id.
type PokemonDetailResponse struct {
	Pokemon PokemonView      `json:"pokemon"`
	Species *pokedex.Species `json:"species"`
}

// ListPokemon handles GET /api/v1/pokemon
func (c *Controller) ListPokemon(ctx echo.Context) error {
	var req ListRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid query parameters", http.StatusBadRequest)
	}
	if err := ctx.Validate(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid query parameters", http.StatusBadRequest)
	}

	page, err := c.Query.List(ctx.Request().Context(), query.ListParams{
		Limit:      req.Limit,
		Offset:     req.Offset,
		Search:     req.Search,
		Types:      splitList(req.Types),
		Generation: req.Generation,
	})
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list pokemon")
	}

	return ctx.JSON(http.StatusOK, PokemonListResponse{
		Pokemon: pokemonViews(page.Pokemon),
		Total:   page.Total,
		HasMore: page.HasMore,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

// GetPokemon handles GET /api/v1/pokemon/:id
func (c *Controller) GetPokemon(ctx echo.Context) error {
	id, err := pokemonIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pokemon id", http.StatusBadRequest)
	}

	detail, err := c.Query.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Pokemon not available")
	}

	return ctx.JSON(http.StatusOK, PokemonDetailResponse{
		Pokemon: newPokemonView(detail.Pokemon),
		Species: detail.Species,
	})
}

// GetTypes handles GET /api/v1/types
func (c *Controller) GetTypes(ctx echo.Context) error {
	types, err := c.Query.GetTypes(ctx.Request().Context())
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list types")
	}

	caser := cases.Title(language.English)
	views := make([]TypeView, 0, len(types))
	for _, t := range types {
		views = append(views, TypeView{Type: t, DisplayName: caser.String(t.Name)})
	}
	return ctx.JSON(http.StatusOK, views)
}

func pokemonViews(list []pokedex.Pokemon) []PokemonView {
	caser := cases.Title(language.English)
	views := make([]PokemonView, 0, len(list))
	for _, p := range list {
		views = append(views, PokemonView{Pokemon: p, DisplayName: displayName(caser, p.Name)})
	}
	return views
}

func newPokemonView(p pokedex.Pokemon) PokemonView {
	return PokemonView{Pokemon: p, DisplayName: displayName(cases.Title(language.English), p.Name)}
}

// displayName turns "wooper-paldea" into "Wooper Paldea".
func displayName(caser cases.Caser, name string) string {
	return caser.String(strings.ReplaceAll(name, "-", " "))
}

// pokemonIDParam parses the :id path parameter as a positive integer.
func pokemonIDParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.Newf("pokemon id must be a positive integer, got %q", ctx.Param("id")).
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return id, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
