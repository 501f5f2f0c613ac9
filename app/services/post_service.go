package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// PostNotifier is told about every post that was created.
type PostNotifier interface {
	NotifyNewPost(ctx context.Context, post *models.Post) error
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	notifier    PostNotifier
	logger      *slog.Logger
}

// NewPostService creates a new PostService. notifier may be nil.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, notifier PostNotifier, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreatePost stores a new post and notifies subscribers. Notification
// failures are logged and never fail the creation.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = 0
	post.CreatedAt = time.Time{}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return invalidModel(err)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewPost(ctx, post); err != nil {
			s.logger.ErrorContext(ctx, "failed to send new post notifications", "post_id", post.ID, "error", err)
		}
	}
	return nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every post, newest first, with comments attached.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withComments(ctx, posts)
}

// PostsByCategory returns posts whose category equals category, ignoring case.
func (s *PostService) PostsByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.withComments(ctx, posts)
}

// SearchPosts matches term against title, author and category. The term is
// used as given, surrounding whitespace included.
func (s *PostService) SearchPosts(ctx context.Context, term string) ([]*models.Post, error) {
	if term == "" {
		return nil, invalid("searchTerm is required")
	}
	posts, err := s.postRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.withComments(ctx, posts)
}

// Categories returns the distinct post categories in sorted order.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	return s.postRepo.Categories(ctx)
}

// UpdatePost applies a sparse update to title, content and author.
func (s *PostService) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.ApplyPatch(patch)
	if err := post.Validate(); err != nil {
		return nil, invalidModel(err)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get comments: %w", err)
	}
	for _, comment := range comments {
		if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
			return fmt.Errorf("failed to delete comment %d: %w", comment.ID, err)
		}
	}

	return s.postRepo.Delete(ctx, id)
}

// LikePost increments the like counter.
func (s *PostService) LikePost(ctx context.Context, id int64) (*models.Post, error) {
	return s.bump(ctx, id, func(p *models.Post) { p.Likes++ })
}

// SharePost increments the share counter.
func (s *PostService) SharePost(ctx context.Context, id int64) (*models.Post, error) {
	return s.bump(ctx, id, func(p *models.Post) { p.Shares++ })
}

// bump is a plain read-modify-write; concurrent calls may lose increments.
func (s *PostService) bump(ctx context.Context, id int64, inc func(*models.Post)) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inc(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) withComments(ctx context.Context, posts []*models.Post) ([]*models.Post, error) {
	for _, post := range posts {
		if err := s.attachComments(ctx, post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *PostService) attachComments(ctx context.Context, post *models.Post) error {
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("failed to get comments for post %d: %w", post.ID, err)
	}
	post.Comments = comments
	return nil
}
