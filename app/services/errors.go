package services

import (
	"errors"

	"blogplatform/app/models"
)

// ValidationError reports input the caller must correct.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// invalidModel wraps a model validation failure with a readable message.
func invalidModel(err error) error {
	return &ValidationError{Message: models.Describe(err)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
