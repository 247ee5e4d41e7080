// Package apperr holds error values shared across packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the content API.
type APIError struct {
	Op         string
	Status     int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.StatusText)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// Is maps 401/403 to ErrUnauthorized and 404 to ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}
