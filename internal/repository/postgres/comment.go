package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

var _ model.CommentStore = (*CommentRepository)(nil)

type CommentRepository struct {
	db *Connection
}

func NewCommentRepository(db *Connection) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query := `INSERT INTO comments (id, post_id, user_id, content, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Content,
		comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}

	return r.GetByID(ctx, comment.ID)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	var c model.Comment
	query := `SELECT cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at, cm.updated_at,
				COALESCE(pr.full_name, 'Unknown')
			  FROM comments cm
			  LEFT JOIN profiles pr ON pr.id = cm.user_id
			  WHERE cm.id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &c.AuthorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Comment{}, model.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	query := `SELECT cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at, cm.updated_at,
				COALESCE(pr.full_name, 'Unknown')
			  FROM comments cm
			  LEFT JOIN profiles pr ON pr.id = cm.user_id
			  WHERE cm.post_id = $1
			  ORDER BY cm.created_at`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query := `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, comment.ID, comment.Content)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Comment{}, model.ErrNotFound
	}

	return r.GetByID(ctx, comment.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
