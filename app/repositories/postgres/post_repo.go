package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

const postColumns = `id, title, content, author, category, excerpt, reading_time, likes, shares, created_at`

// PostRepository implements repositories.PostRepository on PostgreSQL.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	var excerpt sql.NullString
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Author, &post.Category,
		&excerpt, &post.ReadingTime, &post.Likes, &post.Shares, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	post.Excerpt = excerpt.String
	return post, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new post and fills in its generated ID
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, author, category, excerpt, reading_time, likes, shares, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Content, post.Author, post.Category, nullString(post.Excerpt),
		post.ReadingTime, post.Likes, post.Shares, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

// List retrieves every post, newest first
func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query)
}

// ListByCategory retrieves posts whose category matches, ignoring case
func (r *PostRepository) ListByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE LOWER(category) = LOWER($1)
		ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, category)
}

// Search retrieves posts whose title, author or category contain term, ignoring case
func (r *PostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE STRPOS(LOWER(title), LOWER($1)) > 0
		   OR STRPOS(LOWER(author), LOWER($1)) > 0
		   OR STRPOS(LOWER(category), LOWER($1)) > 0
		ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, term)
}

// Categories returns the distinct categories in use, sorted
func (r *PostRepository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM posts WHERE category <> '' ORDER BY category`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Update writes every mutable column of an existing post. created_at is never changed.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, author = $4, category = $5, excerpt = $6,
		    reading_time = $7, likes = $8, shares = $9
		WHERE id = $1
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.Author, post.Category, nullString(post.Excerpt),
		post.ReadingTime, post.Likes, post.Shares,
	).Scan(&post.CreatedAt)
	if err == sql.ErrNoRows {
		return repositories.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
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

func (r *PostRepository) query(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
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
