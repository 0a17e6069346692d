package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert writes the profile row, keeping the existing role on conflict. The
// role is changed only through UpdateRole.
func (r *ProfileRepository) Upsert(ctx context.Context, profile model.Profile) error {
	query := `INSERT INTO profiles (id, email, full_name, role, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE
			  SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, updated_at = EXCLUDED.updated_at`

	role := profile.Role
	if role == "" {
		role = model.RoleUser
	}

	if _, err := r.db.Exec(ctx, query, profile.ID, profile.Email, profile.FullName, role, profile.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetRole(ctx context.Context, userID uuid.UUID) (model.Role, error) {
	var role model.Role
	query := `SELECT role FROM profiles WHERE id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get role: %w", err)
	}

	return role, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT id, email, full_name, role, updated_at FROM profiles ORDER BY email`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	query := `UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
