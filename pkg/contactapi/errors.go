package contactapi

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no API base URL has been configured.
var ErrNotConfigured = errors.New("contactapi: not configured")

// ErrNotFound is wrapped by MutationError when the server reports the enquiry does not exist.
var ErrNotFound = errors.New("contactapi: enquiry not found")

// FetchError reports a failed list query, either at the transport level or as a
// non-2xx / unreadable response.
type FetchError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch contacts: server responded %d: %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("fetch contacts: %v", e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// MutationError reports a failed status update or delete.
type MutationError struct {
	Op         string // "update status" | "delete"
	ID         string
	StatusCode int
	Cause      error
}

func (e *MutationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s contact %s: server responded %d: %v", e.Op, e.ID, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s contact %s: %v", e.Op, e.ID, e.Cause)
}

func (e *MutationError) Unwrap() error { return e.Cause }
