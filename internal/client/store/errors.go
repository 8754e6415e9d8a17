package store

import (
	"errors"
	"fmt"
)

// ErrTransport wraps failures where no HTTP response was received.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx response. Message is the server's message field and
// may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// messageOr picks the server's message when there is one.
func messageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
