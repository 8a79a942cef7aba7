package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/pokedex-go/internal/errors"
)

// bearerTokenParts is the expected number of parts when splitting the Authorization header.
const bearerTokenParts = 2

// Context keys for authentication values stored in echo.Context.
const (
	// CtxKeyUserID holds the authenticated user id, when a valid token was sent.
	CtxKeyUserID = "auth:userID"
)

// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
var ErrInvalidToken = errors.NewStd("invalid bearer token")

// TokenAuthenticator verifies HS256 bearer tokens and resolves the user from
// the "sub" claim. A zero-value secret disables authentication entirely.
type TokenAuthenticator struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewTokenAuthenticator creates an authenticator. issuer is checked when non-empty.
func NewTokenAuthenticator(secret, issuer string) *TokenAuthenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenAuthenticator{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
}

// Enabled reports whether a signing secret is configured.
func (a *TokenAuthenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Issue signs a token for userID valid for ttl.
func (a *TokenAuthenticator) Issue(userID string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", errors.Newf("cannot issue tokens without a signing secret").
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses a token and returns its subject.
func (a *TokenAuthenticator) Verify(token string) (string, error) {
	if !a.Enabled() {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware resolves the user from a bearer token. Requests without an
// Authorization header pass through anonymously; operations that need a user
// fail later with an authentication error. A present but invalid token is
// rejected immediately.
func (a *TokenAuthenticator) Middleware(c *Controller) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(ctx)
			}

			parts := strings.SplitN(header, " ", bearerTokenParts)
			if len(parts) != bearerTokenParts || !strings.EqualFold(parts[0], "Bearer") {
				return c.HandleError(ctx, ErrInvalidToken, "Malformed Authorization header", http.StatusUnauthorized)
			}

			userID, err := a.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return c.HandleError(ctx, err, "Invalid or expired token", http.StatusUnauthorized)
			}

			ctx.Set(CtxKeyUserID, userID)
			return next(ctx)
		}
	}
}

// UserID returns the authenticated user for the request, or "".
func UserID(ctx echo.Context) string {
	userID, _ := ctx.Get(CtxKeyUserID).(string)
	return userID
}
