package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// Users is the admin-only user management surface.
type Users struct {
	profiles   model.ProfileStore
	ctxManager model.ContextManager
	logger     *logger.Logger
}

func NewUsers(profiles model.ProfileStore, ctxManager model.ContextManager, logger *logger.Logger) *Users {
	return &Users{
		profiles:   profiles,
		ctxManager: ctxManager,
		logger:     logger,
	}
}

// ListProfiles returns every profile with its role. Admin only.
func (u *Users) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	if _, err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	profiles, err := u.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateRole assigns a role to the target user. Admin only.
func (u *Users) UpdateRole(ctx context.Context, targetID uuid.UUID, role model.Role) error {
	adminID, err := u.requireAdmin(ctx)
	if err != nil {
		return err
	}

	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", model.ErrValidation, role)
	}

	if err := u.profiles.UpdateRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	u.logger.Info("User service: role updated", "admin_id", adminID, "user_id", targetID, "role", role)
	return nil
}

func (u *Users) requireAdmin(ctx context.Context) (uuid.UUID, error) {
	userID, ok := u.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, model.ErrAuthenticationRequired
	}

	role, err := u.profiles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrInsufficientPermissions
		}
		return uuid.Nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	if role != model.RoleAdmin {
		return uuid.Nil, model.ErrInsufficientPermissions
	}
	return userID, nil
}
