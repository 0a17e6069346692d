package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{db: db}
}

// postColumns lists the selected columns for all read queries, including the
// joined author and category names.
const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.cover_image_url,
		p.category_id, p.author_id, p.tags, p.status, p.published_at, p.created_at, p.updated_at,
		COALESCE(pr.full_name, 'Unknown'), COALESCE(c.name, '')`

const postJoins = `FROM posts p
		LEFT JOIN profiles pr ON pr.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImageURL,
		&p.CategoryID, &p.AuthorID, &p.Tags, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &p.CategoryName,
	)
	return p, err
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	query := `INSERT INTO posts (id, title, slug, content, excerpt, cover_image_url,
				category_id, author_id, tags, status, published_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.CoverImageURL,
		post.CategoryID, post.AuthorID, post.Tags, post.Status, post.PublishedAt,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return r.GetByID(ctx, post.ID)
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	query := `UPDATE posts SET title = $2, slug = $3, content = $4, excerpt = $5,
				cover_image_url = $6, category_id = $7, tags = $8, status = $9,
				published_at = $10, updated_at = NOW()
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt,
		post.CoverImageURL, post.CategoryID, post.Tags, post.Status, post.PublishedAt,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Post{}, model.ErrNotFound
	}

	return r.GetByID(ctx, post.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postJoins + ` WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (model.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postJoins + ` WHERE p.slug = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by slug: %w", err)
	}
	return post, nil
}

// ListPublished returns publicly visible posts, newest published first.
func (r *PostRepository) ListPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postJoins + `
			  WHERE p.status = 'published' AND p.published_at IS NOT NULL AND p.published_at <= $1
			  ORDER BY p.published_at DESC`

	return r.list(ctx, query, now)
}

// ListAll returns posts of every status, newest created first.
func (r *PostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postJoins + ` ORDER BY p.created_at DESC`

	return r.list(ctx, query)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}
