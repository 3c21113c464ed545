package ports

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the platform refused the call for lack of permission.
	ErrForbidden = errors.New("forbidden by platform")
	// ErrUnavailable wraps transport failures reaching the platform.
	ErrUnavailable = errors.New("platform unavailable")
	ErrAPI         = errors.New("platform api error")
)

// APIError is a non-success platform response that is neither a missing
// resource nor a permission refusal.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform api error: status %d", e.Status)
	}
	return fmt.Sprintf("platform api error: status %d code %d: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}
