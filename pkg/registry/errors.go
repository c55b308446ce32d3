package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the package does not exist or has no releases
var ErrNotFound = errors.New("package not found")

// NetworkError indicates a network/transport error when querying the registry
type NetworkError struct {
	URL     string
	Wrapped error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Wrapped)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// StatusError indicates an unexpected HTTP status from the registry
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned HTTP %d for %s", e.StatusCode, e.URL)
}

// ParseError indicates a response could not be decoded
type ParseError struct {
	Package string
	Wrapped error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse registry response for %s: %v", e.Package, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// IsNotFound reports whether err means the package is unknown to the registry
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
