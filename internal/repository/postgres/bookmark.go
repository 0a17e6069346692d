package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

var _ model.BookmarkStore = (*BookmarkRepository)(nil)

type BookmarkRepository struct {
	db *Connection
}

func NewBookmarkRepository(db *Connection) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Add saves the bookmark. Duplicate (user, post) pairs are ignored.
func (r *BookmarkRepository) Add(ctx context.Context, bookmark model.Bookmark) error {
	query := `INSERT INTO bookmarks (id, user_id, post_id, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id, post_id) DO NOTHING`

	if bookmark.ID == uuid.Nil {
		bookmark.ID = uuid.New()
	}

	if _, err := r.db.Exec(ctx, query, bookmark.ID, bookmark.UserID, bookmark.PostID, bookmark.CreatedAt); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *BookmarkRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)`

	if err := r.db.QueryRow(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// ListPosts returns the user's saved posts, most recently saved first.
func (r *BookmarkRepository) ListPosts(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postJoins + `
			  JOIN bookmarks b ON b.post_id = p.id
			  WHERE b.user_id = $1
			  ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmarked post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarked posts: %w", err)
	}

	return posts, nil
}
