package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// UserService defines admin user management operations.
type UserService interface {
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	UpdateRole(ctx context.Context, targetID uuid.UUID, role model.Role) error
}

// User handles HTTP endpoints for user management.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{userService: userService, logger: logger}
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// List returns every profile with its role.
func (h *User) List(c echo.Context) error {
	profiles, err := h.userService.ListProfiles(c.Request().Context())
	if err != nil {
		return handleError(err)
	}

	views := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, profileResponse{
			ID:        p.ID.String(),
			Email:     p.Email,
			FullName:  p.FullName,
			Role:      string(p.Role),
			UpdatedAt: p.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// UpdateRole assigns a role to a user.
func (h *User) UpdateRole(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.UpdateRole(c.Request().Context(), targetID, model.Role(req.Role)); err != nil {
		h.logger.Error("User handler: role update failed", "user_id", targetID, "error", err.Error())
		return handleError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
