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

// CommentService defines comment operations.
type CommentService interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	Create(ctx context.Context, postID uuid.UUID, content string) (model.Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Comment handles HTTP endpoints for post comments.
type Comment struct {
	commentService CommentService
	logger         *logger.Logger
}

// NewComment creates a new Comment handler.
func NewComment(commentService CommentService, logger *logger.Logger) *Comment {
	return &Comment{commentService: commentService, logger: logger}
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toCommentResponse(c model.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID.String(),
		PostID:     c.PostID.String(),
		UserID:     c.UserID.String(),
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ListByPost returns a post's comments, oldest first.
func (h *Comment) ListByPost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	comments, err := h.commentService.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return handleError(err)
	}

	views := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		views = append(views, toCommentResponse(comment))
	}
	return c.JSON(http.StatusOK, views)
}

// Create adds a comment to a post on behalf of the session user.
func (h *Comment) Create(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.commentService.Create(c.Request().Context(), postID, req.Content)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Update edits the session user's own comment.
func (h *Comment) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.commentService.Update(c.Request().Context(), id, req.Content)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete removes the session user's own comment.
func (h *Comment) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	if err := h.commentService.Delete(c.Request().Context(), id); err != nil {
		return handleError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
