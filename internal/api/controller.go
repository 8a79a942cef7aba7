package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/pokedex-go/internal/catalog"
	"github.com/tphakala/pokedex-go/internal/logger"
	"github.com/tphakala/pokedex-go/internal/query"
)

// APIPrefix is the base path of every JSON route.
const APIPrefix = "/api/v1"

// Refresher triggers catalog refreshes.
type Refresher interface {
	RefreshCatalog(ctx context.Context, limit, offset int) (catalog.Result, error)
	RefreshRegional(ctx context.Context, dex, formSuffix string) (catalog.RegionalResult, error)
}

// HTTPRecorder receives per-request metrics.
type HTTPRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int, duration float64)
	RecordHTTPRequestError(method, path, errorType string)
	RecordHTTPResponseSize(method, path string, sizeBytes int64)
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo  *echo.Echo
	Group *echo.Group

	Query     *query.Service
	Refresher Refresher

	auth           *TokenAuthenticator
	metrics        HTTPRecorder
	metricsHandler http.Handler
	logger         logger.Logger
	startTime      time.Time
	version        string
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithRefresher enables the catalog refresh endpoints.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) { c.Refresher = r }
}

// WithAuthenticator sets the bearer token verifier.
func WithAuthenticator(a *TokenAuthenticator) Option {
	return func(c *Controller) { c.auth = a }
}

// WithHTTPMetrics records request metrics and serves promHandler on /metrics.
func WithHTTPMetrics(m HTTPRecorder, promHandler http.Handler) Option {
	return func(c *Controller) {
		c.metrics = m
		c.metricsHandler = promHandler
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(c *Controller) { c.version = v }
}

// NewController creates the controller and registers its routes on e.
func NewController(e *echo.Echo, q *query.Service, opts ...Option) *Controller {
	c := &Controller{
		Echo:      e,
		Query:     q,
		auth:      NewTokenAuthenticator("", ""),
		logger:    logger.Global().Module("api"),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(c)
	}

	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}
	if !c.auth.Enabled() {
		c.logger.Warn("no JWT secret configured, authenticated endpoints will reject every request")
	}

	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group = c.Echo.Group(APIPrefix)

	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	c.Group.Use(middleware.BodyLimit(DefaultBodyLimit))
	c.Group.Use(c.LoggingMiddleware())
	c.Group.Use(c.auth.Middleware(c))

	c.Group.GET("/health", c.HealthCheck)
	if c.metricsHandler != nil {
		c.Group.GET("/metrics", echo.WrapHandler(c.metricsHandler))
	}

	c.Group.GET("/pokemon", c.ListPokemon)
	c.Group.GET("/pokemon/:id", c.GetPokemon)
	c.Group.GET("/types", c.GetTypes)

	c.Group.GET("/favorites", c.ListFavorites)
	c.Group.GET("/favorites/:id", c.GetFavorite)
	c.Group.POST("/favorites/:id", c.AddFavorite)
	c.Group.DELETE("/favorites/:id", c.RemoveFavorite)

	c.Group.GET("/profile", c.GetProfile)
	c.Group.PUT("/profile", c.UpdateProfile)

	c.Group.POST("/catalog/refresh", c.RefreshCatalog)
	c.Group.POST("/catalog/refresh/regional", c.RefreshRegional)
}

// HealthCheck reports liveness and uptime.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        c.version,
		"uptime":         uptime.Round(time.Second).String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
