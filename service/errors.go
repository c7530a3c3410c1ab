package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrInvalidInput          = errors.New("invalid input")
	ErrQuotaExceeded         = errors.New("daily generation limit reached")
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	ErrFaqNotFound           = errors.New("faq not found")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
	ErrExportNotFound        = errors.New("exported document not found")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUsernameTaken         = errors.New("username already taken")
)

// ValidationError lists every constraint an input violated
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// QuotaExceededError carries the numbers the caller needs to report a 429
type QuotaExceededError struct {
	Limit     int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d per day, resets at %s", ErrQuotaExceeded, e.Limit, e.ResetTime.Format(time.RFC3339))
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
