package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Require rejects requests without a valid bearer token.
func (m *Authenticate) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := m.authenticateRequest(c)
		if err != nil {
			m.logger.Debug("Authenticate middleware: rejected request",
				"path", c.Request().URL.Path,
				"error", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		m.injectUserID(c, userID)
		return next(c)
	}
}

// Optional resolves the bearer token when present but lets anonymous
// requests through. Invalid tokens are still rejected rather than silently
// downgraded.
func (m *Authenticate) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if bearerToken(c) == "" {
			return next(c)
		}

		userID, err := m.authenticateRequest(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		m.injectUserID(c, userID)
		return next(c)
	}
}

func (m *Authenticate) authenticateRequest(c echo.Context) (uuid.UUID, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return uuid.Nil, model.ErrAuthenticationRequired
	}

	userID, err := m.tokenService.GetUserID(c.Request().Context(), tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, model.ErrAuthenticationRequired
	}

	return userID, nil
}

func (m *Authenticate) injectUserID(c echo.Context, userID uuid.UUID) {
	req := c.Request()
	ctx := m.contextManager.SetUserIDToContext(req.Context(), userID)
	c.SetRequest(req.WithContext(ctx))
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
