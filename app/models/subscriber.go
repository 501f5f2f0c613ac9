package models

import (
	"errors"
	"strings"
	"time"
)

// NewSubscriber returns an active subscriber stamped with the current time.
// The email is normalised so uniqueness is case-insensitive.
func NewSubscriber(email, firstName string) *Subscriber {
	return &Subscriber{
		Email:        NormalizeEmail(email),
		FirstName:    strings.TrimSpace(firstName),
		Active:       true,
		SubscribedAt: time.Now().UTC(),
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the subscriber meets all validation requirements
func (s *Subscriber) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	if s.SubscribedAt.IsZero() {
		return errors.New("subscribedDate cannot be zero")
	}

	return nil
}

// Deactivate marks the subscriber as unsubscribed. The record and its
// subscription timestamp are kept.
func (s *Subscriber) Deactivate() {
	s.Active = false
}
