// Package apperr defines the error kinds shared by the note service, the
// API client and the orchestrator.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnavailable       = errors.New("service unavailable")
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-2xx response from the note service.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Validation wraps a validation error so that errors.Is(err, ErrValidation)
// holds while the field details stay in the message.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// Message converts err into the text shown to the user as the last error.
// fallback is used for errors that carry nothing presentable.
func Message(err error, fallback string) string {
	var (
		statusErr *StatusError
		fieldErrs validation.Errors
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fieldErrs):
		return "Invalid note: " + fieldErrs.Error()
	case errors.Is(err, ErrValidation):
		return "Invalid note: " + strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	case errors.Is(err, ErrNotFound):
		return "Note not found"
	case errors.As(err, &statusErr):
		if statusErr.Message != "" {
			return fmt.Sprintf("%s: %s", fallback, statusErr.Message)
		}
		return fmt.Sprintf("%s (status %d)", fallback, statusErr.Status)
	case errors.Is(err, ErrMalformedResponse):
		return fallback + ": the notes service sent an invalid response"
	case errors.Is(err, ErrUnavailable):
		return fallback + ": the notes service is unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return fallback + ": request timed out"
	default:
		return fallback
	}
}
