package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// BookmarkService defines saved-post operations.
type BookmarkService interface {
	List(ctx context.Context) ([]model.BlogPost, error)
	Add(ctx context.Context, postID uuid.UUID) error
	Remove(ctx context.Context, postID uuid.UUID) error
	IsBookmarked(ctx context.Context, postID uuid.UUID) (bool, error)
}

// Bookmark handles HTTP endpoints for the caller's saved posts.
type Bookmark struct {
	bookmarkService BookmarkService
	logger          *logger.Logger
}

// NewBookmark creates a new Bookmark handler.
func NewBookmark(bookmarkService BookmarkService, logger *logger.Logger) *Bookmark {
	return &Bookmark{bookmarkService: bookmarkService, logger: logger}
}

// List returns the caller's saved posts.
func (h *Bookmark) List(c echo.Context) error {
	posts, err := h.bookmarkService.List(c.Request().Context())
	if err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Add saves a post for the caller. Saving twice is not an error.
func (h *Bookmark) Add(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.bookmarkService.Add(c.Request().Context(), postID); err != nil {
		return handleError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove unsaves a post for the caller.
func (h *Bookmark) Remove(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.bookmarkService.Remove(c.Request().Context(), postID); err != nil {
		return handleError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Status reports whether the caller has saved the post.
func (h *Bookmark) Status(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	saved, err := h.bookmarkService.IsBookmarked(c.Request().Context(), postID)
	if err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"bookmarked": saved})
}
