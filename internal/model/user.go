package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a server-resolved authorization level. Client-held roles are a
// cache of this value and are never trusted for privileged operations.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAuthor    Role = "author"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role may read unpublished content.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleAuthor
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a registered identity with authentication material.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// ProfileStore defines persistence operations for profiles. GetRole is the
// authoritative role lookup; callers must not gate privileged reads on
// anything else.
type ProfileStore interface {
	Upsert(ctx context.Context, profile Profile) error
	GetRole(ctx context.Context, userID uuid.UUID) (Role, error)
	List(ctx context.Context) ([]Profile, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
}

// Profile is the public-facing row kept alongside a user. It is upserted
// lazily on session changes.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      Role
	UpdatedAt time.Time
}
