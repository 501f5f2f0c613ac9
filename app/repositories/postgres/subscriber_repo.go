package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// SubscriberRepository implements repositories.SubscriberRepository on PostgreSQL.
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new PostgreSQL subscriber repository
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create inserts a subscriber; the unique email constraint maps to ErrDuplicateEmail
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	query := `
		INSERT INTO subscribers (email, first_name, is_active, subscribed_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		subscriber.Email, nullString(subscriber.FirstName), subscriber.Active, subscriber.SubscribedAt,
	).Scan(&subscriber.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// GetByEmail retrieves a subscriber by email address
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	s := &models.Subscriber{}
	query := `
		SELECT id, email, first_name, is_active, subscribed_date
		FROM subscribers
		WHERE email = $1`

	var firstName sql.NullString
	err := r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)).
		Scan(&s.ID, &s.Email, &firstName, &s.Active, &s.SubscribedAt)
	if err == sql.ErrNoRows {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}
	s.FirstName = firstName.String
	return s, nil
}

// ExistsByEmail reports whether any subscriber, active or not, uses the address
func (r *SubscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM subscribers WHERE email = $1)`
	if err := r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscriber email: %w", err)
	}
	return exists, nil
}

// ListActive retrieves every subscriber with the active flag set
func (r *SubscriberRepository) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	query := `
		SELECT id, email, first_name, is_active, subscribed_date
		FROM subscribers
		WHERE is_active
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []*models.Subscriber{}
	for rows.Next() {
		s := &models.Subscriber{}
		var firstName sql.NullString
		if err := rows.Scan(&s.ID, &s.Email, &firstName, &s.Active, &s.SubscribedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		s.FirstName = firstName.String
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}
	return subscribers, nil
}

// Update saves the mutable subscriber fields. Email and subscribed_date are fixed.
func (r *SubscriberRepository) Update(ctx context.Context, subscriber *models.Subscriber) error {
	query := `
		UPDATE subscribers
		SET first_name = $2, is_active = $3
		WHERE id = $1
		RETURNING email, subscribed_date`

	err := r.db.QueryRowContext(ctx, query, subscriber.ID, nullString(subscriber.FirstName), subscriber.Active).
		Scan(&subscriber.Email, &subscriber.SubscribedAt)
	if err == sql.ErrNoRows {
		return repositories.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update subscriber %d: %w", subscriber.ID, err)
	}
	return nil
}
