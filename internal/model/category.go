package model

import (
	"context"

	"github.com/google/uuid"
)

// CategoryStore defines persistence operations for categories.
type CategoryStore interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
}

// Category groups posts. It is referenced by posts, never embedded.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
}
