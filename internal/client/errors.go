package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrLoadFailed wraps any failure of Session.Load. The working set is left untouched.
	ErrLoadFailed = errors.New("failed to load applications")
	// ErrInvalidInput is returned before any request when required fields are blank.
	ErrInvalidInput = errors.New("job title, company and date are required")
	// ErrNotAuthenticated is returned by operations that need a credential.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a failed exchange with the server. Status is 0 when no
// response arrived.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether re-issuing the same action may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}
