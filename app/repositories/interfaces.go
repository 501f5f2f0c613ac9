package repositories

import (
	"context"
	"errors"

	"blogplatform/app/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already subscribed")
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Post, error)
	Search(ctx context.Context, term string) ([]*models.Post, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// SubscriberRepository defines the interface for subscriber data access
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context) ([]*models.Subscriber, error)
	Update(ctx context.Context, subscriber *models.Subscriber) error
}
