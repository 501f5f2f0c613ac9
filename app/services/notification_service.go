package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogplatform/app/mailer"
	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// PreviewLimit is the number of characters of plain-text content included
// in a notification before it is cut to a preview.
const PreviewLimit = 500

// NotificationService composes post emails and hands them to the mailer.
type NotificationService struct {
	subscriberRepo repositories.SubscriberRepository
	postRepo       repositories.PostRepository
	mailer         mailer.Mailer
	siteURL        string
	logger         *slog.Logger
}

func NewNotificationService(subscriberRepo repositories.SubscriberRepository, postRepo repositories.PostRepository, m mailer.Mailer, siteURL string, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		subscriberRepo: subscriberRepo,
		postRepo:       postRepo,
		mailer:         m,
		siteURL:        siteURL,
		logger:         logger,
	}
}

// NotifyNewPost mails the newsletter variant of post to every active
// subscriber. Every recipient is attempted; failures are joined.
func (s *NotificationService) NotifyNewPost(ctx context.Context, post *models.Post) error {
	subscribers, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}

	var errs []error
	for _, sub := range subscribers {
		msg := mailer.Message{
			To:      sub.Email,
			Subject: "New Blog Post: " + post.Title,
			Body:    s.ComposeNewsletter(post, sub),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "newsletter delivery failed", "post_id", post.ID, "to", sub.Email, "error", err)
			errs = append(errs, err)
		}
	}

	s.logger.InfoContext(ctx, "new post notifications sent", "post_id", post.ID, "recipients", len(subscribers), "failed", len(errs))
	return errors.Join(errs...)
}

// SendPostToEmail mails the on-demand variant of the post with postID to email.
func (s *NotificationService) SendPostToEmail(ctx context.Context, email string, postID int64) error {
	if err := models.ValidateEmail(email); err != nil {
		return invalid(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		To:      strings.TrimSpace(email),
		Subject: "Blog Post: " + post.Title,
		Body:    s.ComposeOnDemand(post),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send post %d: %w", post.ID, err)
	}
	return nil
}

// ComposeNewsletter renders the personalised body sent to a subscriber.
func (s *NotificationService) ComposeNewsletter(post *models.Post, sub *models.Subscriber) string {
	var b strings.Builder
	name := sub.FirstName
	if name == "" {
		name = "there"
	}
	b.WriteString("Hi " + name + ",\n\n")
	b.WriteString("We have a new blog post for you!\n\n")
	s.writePost(&b, post)

	b.WriteString("\n\nThanks for subscribing to our blog!\n")
	if !sub.SubscribedAt.IsZero() {
		b.WriteString("Subscribed since " + sub.SubscribedAt.Format("January 2, 2006") + "\n")
	}
	b.WriteString("Visit our blog: " + s.siteURL)
	return b.String()
}

// ComposeOnDemand renders the body sent to an arbitrary address.
func (s *NotificationService) ComposeOnDemand(post *models.Post) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Here's the blog post you requested:\n\n")
	s.writePost(&b, post)
	return b.String()
}

func (s *NotificationService) writePost(b *strings.Builder, post *models.Post) {
	fmt.Fprintf(b, "Title: %s\n", post.Title)
	fmt.Fprintf(b, "Author: %s\n", post.Author)
	fmt.Fprintf(b, "Category: %s\n", post.Category)
	fmt.Fprintf(b, "Reading Time: %d minutes\n\n", post.ReadingTime)

	if post.Excerpt != "" {
		fmt.Fprintf(b, "Summary: %s\n\n", post.Excerpt)
	}

	content := models.StripHTML(post.Content)
	if runes := []rune(content); len(runes) > PreviewLimit {
		fmt.Fprintf(b, "Preview: %s...\n\n", string(runes[:PreviewLimit]))
		fmt.Fprintf(b, "Read the full post at: %s\n", s.siteURL)
	} else {
		fmt.Fprintf(b, "Content: %s\n", content)
	}
}
