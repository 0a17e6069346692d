package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// Blog is the content service: it maps stored rows to view models for the
// public surface and enforces role gates on the authoring surface.
type Blog struct {
	posts      model.PostStore
	categories model.CategoryStore
	profiles   model.ProfileStore
	storage    model.Storage
	ctxManager model.ContextManager
	logger     *logger.Logger
}

func NewBlog(
	posts model.PostStore,
	categories model.CategoryStore,
	profiles model.ProfileStore,
	storage model.Storage,
	ctxManager model.ContextManager,
	logger *logger.Logger,
) *Blog {
	return &Blog{
		posts:      posts,
		categories: categories,
		profiles:   profiles,
		storage:    storage,
		ctxManager: ctxManager,
		logger:     logger,
	}
}

// GetPublishedPosts returns the public feed: published posts whose publish
// timestamp has passed, newest first.
func (b *Blog) GetPublishedPosts(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := b.posts.ListPublished(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}

	views := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		views = append(views, toBlogPost(p))
	}
	return views, nil
}

// GetPostBySlug resolves a post by its slug. When no post carries the slug
// and the value parses as a post ID, it falls back to an ID lookup, so
// legacy ID-based links keep working.
func (b *Blog) GetPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	post, err := b.posts.GetBySlug(ctx, slug)
	if errors.Is(err, model.ErrNotFound) {
		id, parseErr := uuid.Parse(slug)
		if parseErr != nil {
			return model.BlogPost{}, model.ErrNotFound
		}
		post, err = b.posts.GetByID(ctx, id)
	}
	if err != nil {
		return model.BlogPost{}, err
	}
	return toBlogPost(post), nil
}

// GetAllPosts returns every post regardless of status. The caller's role is
// re-resolved from the store on every call rather than trusted from any
// cached session state.
func (b *Blog) GetAllPosts(ctx context.Context) ([]model.Post, error) {
	if _, err := b.requireElevated(ctx); err != nil {
		return nil, err
	}

	posts, err := b.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost stores a new post authored by the session user. A missing slug
// is derived from the title; a missing status defaults to draft.
func (b *Blog) CreatePost(ctx context.Context, input model.PostInput) (model.Post, error) {
	userID, err := b.requireElevated(ctx)
	if err != nil {
		return model.Post{}, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return model.Post{}, fmt.Errorf("%w: title is required", model.ErrValidation)
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}
	status := input.Status
	if status == "" {
		status = model.PostStatusDraft
	}

	now := time.Now()
	post := model.Post{
		ID:            uuid.New(),
		Title:         input.Title,
		Slug:          slug,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		CoverImageURL: input.CoverImageURL,
		CategoryID:    input.CategoryID,
		AuthorID:      userID,
		Tags:          input.Tags,
		Status:        status,
		PublishedAt:   input.PublishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == model.PostStatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}

	created, err := b.posts.Create(ctx, post)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	b.logger.Info("Blog service: post created", "post_id", created.ID, "author_id", userID)
	return created, nil
}

// UpdatePost applies client-supplied fields to an existing post. The author
// is never changed by an update.
func (b *Blog) UpdatePost(ctx context.Context, id uuid.UUID, input model.PostInput) (model.Post, error) {
	if _, err := b.requireElevated(ctx); err != nil {
		return model.Post{}, err
	}

	post, err := b.posts.GetByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Slug != "" {
		post.Slug = input.Slug
	}
	post.Content = input.Content
	post.Excerpt = input.Excerpt
	post.CoverImageURL = input.CoverImageURL
	post.CategoryID = input.CategoryID
	post.Tags = input.Tags
	if input.Status != "" {
		post.Status = input.Status
	}
	post.PublishedAt = input.PublishedAt
	if post.Status == model.PostStatusPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.UpdatedAt = time.Now()

	updated, err := b.posts.Update(ctx, post)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	b.logger.Info("Blog service: post updated", "post_id", id)
	return updated, nil
}

func (b *Blog) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := b.requireElevated(ctx); err != nil {
		return err
	}

	if err := b.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	b.logger.Info("Blog service: post deleted", "post_id", id)
	return nil
}

func (b *Blog) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := b.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UploadImage stores the image under a random key that keeps only the
// original extension, and returns its public URL.
func (b *Blog) UploadImage(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if _, err := b.requireElevated(ctx); err != nil {
		return "", err
	}

	key := uuid.NewString() + path.Ext(filename)
	if err := b.storage.Upload(ctx, key, contentType, reader, size); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	b.logger.Debug("Blog service: image uploaded", "key", key)
	return b.storage.PublicURL(key), nil
}

// requireElevated resolves the caller from the context and checks their
// stored role. The role comes from a fresh lookup on every call.
func (b *Blog) requireElevated(ctx context.Context) (uuid.UUID, error) {
	userID, ok := b.ctxManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, model.ErrAuthenticationRequired
	}

	role, err := b.profiles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrInsufficientPermissions
		}
		return uuid.Nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	if !role.Elevated() {
		return uuid.Nil, model.ErrInsufficientPermissions
	}
	return userID, nil
}

// Slugify derives a URL slug from a title: lowercase, non-word characters
// stripped, whitespace runs collapsed to single hyphens.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	var sb strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), "-")
}

const wordsPerMinute = 200

// readTime estimates reading time from the word count, rounding up to the
// next full minute. Empty content reads as zero minutes.
func readTime(content string) string {
	words := len(strings.Fields(content))
	if words == 0 {
		return "0 min read"
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}

// publishDate renders the publish timestamp in the long date format used
// across the site. Unpublished posts fall back to the creation time.
func publishDate(p model.Post) string {
	ts := p.CreatedAt
	if p.PublishedAt != nil {
		ts = *p.PublishedAt
	}
	return ts.Format("January 2, 2006")
}

func toBlogPost(p model.Post) model.BlogPost {
	author := p.AuthorName
	if author == "" {
		author = "Unknown"
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.BlogPost{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		CoverImage:  p.CoverImageURL,
		Category:    p.CategoryName,
		Author:      author,
		PublishDate: publishDate(p),
		ReadTime:    readTime(p.Content),
		Tags:        tags,
		Status:      string(p.Status),
	}
}
