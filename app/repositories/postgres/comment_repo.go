package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// CommentRepository implements repositories.CommentRepository on PostgreSQL.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment under its post
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, author, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.Author, comment.Content, comment.CreatedAt).
		Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment := &models.Comment{}
	query := `SELECT id, post_id, author, content, created_at FROM comments WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&comment.ID, &comment.PostID, &comment.Author, &comment.Content, &comment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post, newest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, post_id, author, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// Update changes the author and content of a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET author = $2, content = $3
		WHERE id = $1
		RETURNING post_id, created_at`

	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Author, comment.Content).
		Scan(&comment.PostID, &comment.CreatedAt)
	if err == sql.ErrNoRows {
		return repositories.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", comment.ID, err)
	}
	return nil
}

// Delete deletes a comment by ID
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
