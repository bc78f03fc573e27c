package api

import (
	"errors"
	"fmt"
)

// ErrShape is returned when the backend answers 2xx with an unexpected payload.
var ErrShape = errors.New("unexpected response shape")

// StatusError describes a non-2xx answer of the backend.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: server returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: server returned status %d", e.Method, e.URL, e.StatusCode)
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func shapeError(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %v", what, ErrShape, err)
	}
	return fmt.Errorf("%s: %w", what, ErrShape)
}
