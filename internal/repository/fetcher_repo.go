package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyBody is returned when a fetch succeeds but yields no content.
var ErrEmptyBody = errors.New("response body is empty")

// FetchError describes a GET that did not produce a usable body.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetcherRepository defines the contract for retrieving a remote document as text.
type FetcherRepository interface {
	// Fetch performs a GET and returns the body decoded to UTF-8.
	// Any failure is returned as a *FetchError.
	Fetch(ctx context.Context, url string) (string, error)
}
