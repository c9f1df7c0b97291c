package model

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when two embeddings of different lengths are compared.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// HTTPError wraps an HTTP status code returned by an oracle endpoint.
type HTTPError struct {
	StatusCode int
	Body       string // response body, truncated by the caller
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
