package services

import (
	"context"
	"time"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment attaches a new comment to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, postID int64, comment *models.Comment) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	comment.ID = 0
	comment.CreatedAt = time.Time{}
	if err := comment.SetPost(post); err != nil {
		return err
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return invalidModel(err)
	}

	return s.commentRepo.Create(ctx, comment)
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListPostComments retrieves all comments for a post
func (s *CommentService) ListPostComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// UpdateComment applies a sparse update to the comment with the given id.
// The comment is looked up by id alone; postID only has to name an
// existing post.
func (s *CommentService) UpdateComment(ctx context.Context, postID, id int64, patch models.CommentPatch) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.ApplyPatch(patch)
	if err := comment.Validate(); err != nil {
		return nil, invalidModel(err)
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(ctx context.Context, id int64) error {
	return s.commentRepo.Delete(ctx, id)
}
