package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommentStore defines persistence operations for comments.
type CommentStore interface {
	Create(ctx context.Context, comment Comment) (Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]Comment, error)
	Update(ctx context.Context, comment Comment) (Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Comment is owned by its author; only the author may change or delete it.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined field, populated by list queries.
	AuthorName string
}
