package hackernews

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrInvalidID is returned before any request when an item id is not positive.
	ErrInvalidID = errors.New("hackernews: item id must be a positive integer")
	// ErrNotFound is returned for a null payload, which upstream uses for deleted or missing items.
	ErrNotFound = errors.New("hackernews: item not found")
	// ErrNotJSON is returned when a response does not declare a JSON content type.
	ErrNotJSON = errors.New("hackernews: response is not JSON")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Source string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hackernews: %s %s status %d", e.Source, e.URL, e.Code)
}

// IsRetryable reports whether err is a timeout, a throttle or a server-side failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return false
}
