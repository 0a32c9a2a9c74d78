package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotEligible   = errors.New("not eligible")
	ErrConflict      = errors.New("conflict")

	// ErrEnrollmentMissing means a completion arrived for a user who is not
	// enrolled in the lesson's course.
	ErrEnrollmentMissing = fmt.Errorf("enrollment missing: %w", ErrNotFound)
	ErrAlreadyEnrolled   = fmt.Errorf("already enrolled: %w", ErrConflict)
	ErrAttemptsExhausted = fmt.Errorf("no attempts left: %w", ErrNotEligible)
	ErrInvalidCredential = fmt.Errorf("invalid email or password: %w", ErrNotAuthorized)
	ErrAccountLocked     = fmt.Errorf("account temporarily locked: %w", ErrNotAuthorized)
)

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and leaves other
// storage errors untouched.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
