package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostStore defines persistence operations for posts.
type PostStore interface {
	Create(ctx context.Context, post Post) (Post, error)
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	ListPublished(ctx context.Context, now time.Time) ([]Post, error)
	ListAll(ctx context.Context) ([]Post, error)
}

// PostStatus enumerates the lifecycle states of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post represents a stored post row. A post is publicly visible only when
// Status is published and PublishedAt is non-nil and not in the future.
type Post struct {
	ID            uuid.UUID
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	CategoryID    *uuid.UUID
	AuthorID      uuid.UUID
	Tags          []string
	Status        PostStatus
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields, populated by list/get queries.
	AuthorName   string
	CategoryName string
}

// PostInput carries client-supplied fields for creating or updating a post.
// The author is always taken from the session, never from the input.
type PostInput struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	CategoryID    *uuid.UUID
	Tags          []string
	Status        PostStatus
	PublishedAt   *time.Time
}

// BlogPost is the view model consumed by presentation, with derived fields
// computed from the raw row.
type BlogPost struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	CoverImage  string   `json:"coverImage"`
	Category    string   `json:"category"`
	Author      string   `json:"author"`
	PublishDate string   `json:"publishDate"`
	ReadTime    string   `json:"readTime"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}
