package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// AuthService defines sign-up, sign-in and session lifecycle operations.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (model.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (model.Session, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type sessionResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         sessionUser `json:"user"`
}

func toSessionResponse(s model.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User: sessionUser{
			ID:       s.User.ID.String(),
			Email:    s.User.Email,
			FullName: s.User.FullName,
		},
	}
}

// SignUp registers a new account and returns its first session.
func (h *Auth) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	h.logger.Debug("Auth handler: processing sign-up request", "email", req.Email)

	session, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.logger.Error("Auth handler: sign-up failed", "email", req.Email, "error", err.Error())
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, toSessionResponse(session))
}

// SignIn authenticates credentials and returns a session.
func (h *Auth) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	h.logger.Debug("Auth handler: processing sign-in request", "email", req.Email)

	session, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign-in failed", "email", req.Email, "error", err.Error())
		return handleError(err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// SignOut ends the session. It always succeeds from the client's point of
// view.
func (h *Auth) SignOut(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.authService.SignOut(c.Request().Context(), req.RefreshToken); err != nil {
		return handleError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Refresh rotates the refresh token and returns the new session.
func (h *Auth) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.authService.RefreshSession(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Auth handler: refresh failed", "error", err.Error())
		return handleError(err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}
