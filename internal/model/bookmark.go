package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookmarkStore defines persistence operations for bookmarks. Add must be
// idempotent per (user, post) pair.
type BookmarkStore interface {
	Add(ctx context.Context, bookmark Bookmark) error
	Remove(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListPosts(ctx context.Context, userID uuid.UUID) ([]Post, error)
}

// Bookmark is a join entity representing a user's saved post.
type Bookmark struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PostID    uuid.UUID
	CreatedAt time.Time
}
