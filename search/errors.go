package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates a 401 response.
	ErrUnauthorized = errors.New("search: unauthorized (check API key)")
	// ErrForbidden indicates a 403 response.
	ErrForbidden = errors.New("search: forbidden")
)

// APIError is a non-2xx response from a search API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps auth failures to their sentinels so callers can branch with
// errors.Is regardless of provider.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// Retryable reports whether the failure is worth retrying. Rate limits and
// server-side errors are transient; auth and client errors are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryableError is a research.RetryConfig.RetryableErrors policy for the
// providers in this package: API errors retry per their status code,
// everything else retries unless the caller canceled.
func RetryableError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return !errors.Is(err, context.Canceled)
}
