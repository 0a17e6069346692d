package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// Comments enforces the ownership rule: anyone signed in may comment, only
// the comment's author may change or remove it.
type Comments struct {
	comments   model.CommentStore
	ctxManager model.ContextManager
	logger     *logger.Logger
}

func NewComments(comments model.CommentStore, ctxManager model.ContextManager, logger *logger.Logger) *Comments {
	return &Comments{
		comments:   comments,
		ctxManager: ctxManager,
		logger:     logger,
	}
}

// ListByPost is public; comments are readable without a session.
func (c *Comments) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	comments, err := c.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (c *Comments) Create(ctx context.Context, postID uuid.UUID, content string) (model.Comment, error) {
	userID, ok := c.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.Comment{}, model.ErrAuthenticationRequired
	}

	if strings.TrimSpace(content) == "" {
		return model.Comment{}, fmt.Errorf("%w: comment content is required", model.ErrValidation)
	}

	now := time.Now()
	comment, err := c.comments.Create(ctx, model.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}

	c.logger.Debug("Comment service: comment created", "comment_id", comment.ID, "post_id", postID)
	return comment, nil
}

func (c *Comments) Update(ctx context.Context, id uuid.UUID, content string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return model.Comment{}, fmt.Errorf("%w: comment content is required", model.ErrValidation)
	}

	comment, err := c.requireOwned(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()

	updated, err := c.comments.Update(ctx, comment)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to update comment: %w", err)
	}
	return updated, nil
}

func (c *Comments) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := c.requireOwned(ctx, id); err != nil {
		return err
	}

	if err := c.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	c.logger.Debug("Comment service: comment deleted", "comment_id", id)
	return nil
}

func (c *Comments) requireOwned(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	userID, ok := c.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.Comment{}, model.ErrAuthenticationRequired
	}

	comment, err := c.comments.GetByID(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.UserID != userID {
		return model.Comment{}, model.ErrInsufficientPermissions
	}
	return comment, nil
}
