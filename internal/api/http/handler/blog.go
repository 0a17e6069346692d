package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshalexbalmuchu/nextnode/internal/cache"
	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

const (
	cacheKeyPublishedPosts = "posts:published"
	cacheKeyCategories     = "categories"
	cacheKeyPostSlug       = "posts:slug:"
)

// BlogService defines content read and authoring operations.
type BlogService interface {
	GetPublishedPosts(ctx context.Context) ([]model.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (model.BlogPost, error)
	GetAllPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, input model.PostInput) (model.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input model.PostInput) (model.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetCategories(ctx context.Context) ([]model.Category, error)
	UploadImage(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error)
}

// Blog handles HTTP endpoints for posts and categories.
type Blog struct {
	blogService BlogService
	cache       *cache.Cache
	cacheTTL    time.Duration
	logger      *logger.Logger
}

// NewBlog creates a new Blog handler.
func NewBlog(blogService BlogService, cache *cache.Cache, cacheTTL time.Duration, logger *logger.Logger) *Blog {
	return &Blog{
		blogService: blogService,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

type postRequest struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"coverImage"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

func (r postRequest) toInput() model.PostInput {
	return model.PostInput{
		Title:         r.Title,
		Slug:          r.Slug,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		CoverImageURL: r.CoverImageURL,
		CategoryID:    r.CategoryID,
		Tags:          r.Tags,
		Status:        model.PostStatus(r.Status),
		PublishedAt:   r.PublishedAt,
	}
}

// ListPublished returns the public feed.
func (h *Blog) ListPublished(c echo.Context) error {
	ctx := c.Request().Context()

	var posts []model.BlogPost
	err := h.cache.Aside(ctx, cacheKeyPublishedPosts, &posts, h.cacheTTL, func() error {
		var err error
		posts, err = h.blogService.GetPublishedPosts(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("Blog handler: listing published posts failed", "error", err.Error())
		return handleError(err)
	}

	return c.JSON(http.StatusOK, posts)
}

// GetBySlug returns a single post by slug, or by ID for legacy links.
func (h *Blog) GetBySlug(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	var post model.BlogPost
	err := h.cache.Aside(ctx, cacheKeyPostSlug+slug, &post, h.cacheTTL, func() error {
		var err error
		post, err = h.blogService.GetPostBySlug(ctx, slug)
		return err
	})
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// ListCategories returns all categories.
func (h *Blog) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var categories []model.Category
	err := h.cache.Aside(ctx, cacheKeyCategories, &categories, h.cacheTTL, func() error {
		var err error
		categories, err = h.blogService.GetCategories(ctx)
		return err
	})
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, categories)
}

// ListAll returns every post including drafts. Authors and admins only.
func (h *Blog) ListAll(c echo.Context) error {
	posts, err := h.blogService.GetAllPosts(c.Request().Context())
	if err != nil {
		return handleError(err)
	}

	views := make([]adminPost, 0, len(posts))
	for _, p := range posts {
		views = append(views, toAdminPost(p))
	}
	return c.JSON(http.StatusOK, views)
}

// Create stores a new post.
func (h *Blog) Create(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	post, err := h.blogService.CreatePost(c.Request().Context(), req.toInput())
	if err != nil {
		h.logger.Error("Blog handler: post creation failed", "error", err.Error())
		return handleError(err)
	}

	h.invalidatePostCaches(c.Request().Context(), post.Slug)
	return c.JSON(http.StatusCreated, toAdminPost(post))
}

// Update applies changes to an existing post.
func (h *Blog) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	post, err := h.blogService.UpdatePost(c.Request().Context(), id, req.toInput())
	if err != nil {
		return handleError(err)
	}

	h.invalidatePostCaches(c.Request().Context(), post.Slug)
	return c.JSON(http.StatusOK, toAdminPost(post))
}

// Delete removes a post.
func (h *Blog) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.blogService.DeletePost(c.Request().Context(), id); err != nil {
		return handleError(err)
	}

	h.invalidatePostCaches(c.Request().Context(), "")
	return c.NoContent(http.StatusNoContent)
}

// UploadImage accepts a multipart image upload and returns its public URL.
func (h *Blog) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	url, err := h.blogService.UploadImage(c.Request().Context(), fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		h.logger.Error("Blog handler: image upload failed", "filename", fileHeader.Filename, "error", err.Error())
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}

func (h *Blog) invalidatePostCaches(ctx context.Context, slug string) {
	keys := []string{cacheKeyPublishedPosts}
	if slug != "" {
		keys = append(keys, cacheKeyPostSlug+slug)
	}
	h.cache.Invalidate(ctx, keys...)
}

// adminPost is the management view of a post: raw fields, no derived
// presentation values.
type adminPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"coverImage"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	AuthorID      string     `json:"authorId"`
	AuthorName    string     `json:"authorName,omitempty"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toAdminPost(p model.Post) adminPost {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return adminPost{
		ID:            p.ID.String(),
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		CoverImageURL: p.CoverImageURL,
		CategoryID:    p.CategoryID,
		AuthorID:      p.AuthorID.String(),
		AuthorName:    p.AuthorName,
		Tags:          tags,
		Status:        string(p.Status),
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
