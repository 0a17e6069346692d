package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// Bookmarks manages the caller's saved posts. Every operation is scoped to
// the session user.
type Bookmarks struct {
	bookmarks  model.BookmarkStore
	ctxManager model.ContextManager
	logger     *logger.Logger
}

func NewBookmarks(bookmarks model.BookmarkStore, ctxManager model.ContextManager, logger *logger.Logger) *Bookmarks {
	return &Bookmarks{
		bookmarks:  bookmarks,
		ctxManager: ctxManager,
		logger:     logger,
	}
}

// List returns the caller's saved posts as view models, most recently saved
// first.
func (b *Bookmarks) List(ctx context.Context) ([]model.BlogPost, error) {
	userID, ok := b.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, model.ErrAuthenticationRequired
	}

	posts, err := b.bookmarks.ListPosts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked posts: %w", err)
	}

	views := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		views = append(views, toBlogPost(p))
	}
	return views, nil
}

// Add saves a post for the caller. Saving an already saved post is a no-op.
func (b *Bookmarks) Add(ctx context.Context, postID uuid.UUID) error {
	userID, ok := b.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.ErrAuthenticationRequired
	}

	err := b.bookmarks.Add(ctx, model.Bookmark{
		ID:        uuid.New(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	b.logger.Debug("Bookmark service: bookmark added", "user_id", userID, "post_id", postID)
	return nil
}

func (b *Bookmarks) Remove(ctx context.Context, postID uuid.UUID) error {
	userID, ok := b.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.ErrAuthenticationRequired
	}

	if err := b.bookmarks.Remove(ctx, userID, postID); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

func (b *Bookmarks) IsBookmarked(ctx context.Context, postID uuid.UUID) (bool, error) {
	userID, ok := b.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return false, model.ErrAuthenticationRequired
	}

	exists, err := b.bookmarks.Exists(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}
