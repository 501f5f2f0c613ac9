package services

import (
	"context"
	"errors"
	"fmt"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// ErrAlreadySubscribed is returned when the email is on file, active or not.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// SubscriberService manages newsletter sign-ups.
type SubscriberService struct {
	repo repositories.SubscriberRepository
}

func NewSubscriberService(repo repositories.SubscriberRepository) *SubscriberService {
	return &SubscriberService{repo: repo}
}

// Subscribe registers a new active subscriber.
func (s *SubscriberService) Subscribe(ctx context.Context, email, firstName string) (*models.Subscriber, error) {
	sub := models.NewSubscriber(email, firstName)
	if err := sub.Validate(); err != nil {
		return nil, invalidModel(err)
	}

	exists, err := s.repo.ExistsByEmail(ctx, sub.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriber: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		// Lost a race with a concurrent sign-up for the same address.
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return sub, nil
}

// Unsubscribe deactivates the subscriber. It returns repositories.ErrNotFound
// when the email is unknown.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return err
	}
	sub.Deactivate()
	return s.repo.Update(ctx, sub)
}

// ActiveSubscribers lists the subscribers who receive new post notifications.
func (s *SubscriberService) ActiveSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	return s.repo.ListActive(ctx)
}
