package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/pokedex-go/internal/logger"
)

// LoggingMiddleware logs each request and records HTTP metrics.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)
			if err != nil {
				// Let echo write the response so the logged status is final.
				ctx.Error(err)
			}

			req := ctx.Request()
			res := ctx.Response()
			latency := time.Since(start)
			path := routePath(ctx)

			c.logger.Info("request",
				logger.String("method", req.Method),
				logger.String("path", path),
				logger.String("uri", req.RequestURI),
				logger.Int("status", res.Status),
				logger.Duration("latency", latency),
				logger.String("ip", ctx.RealIP()),
				logger.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				logger.String("user_id", UserID(ctx)))

			if c.metrics != nil {
				c.metrics.RecordHTTPRequest(req.Method, path, res.Status, latency.Seconds())
				c.metrics.RecordHTTPResponseSize(req.Method, path, res.Size)
			}
			return nil
		}
	}
}

// routePath returns the matched route template to keep metric label cardinality bounded.
func routePath(ctx echo.Context) string {
	if p := ctx.Path(); p != "" {
		return p
	}
	return "unmatched"
}
