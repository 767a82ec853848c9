package stacclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidBaseURL is returned when a base URL option is invalid.
	ErrInvalidBaseURL = errors.New("stacclient: invalid base URL")
	// ErrNilHTTPClient indicates a nil HTTP client was provided.
	ErrNilHTTPClient = errors.New("stacclient: http client cannot be nil")
)

// TransactionError reports a failed call against a STAC Transaction
// endpoint. Title and Detail carry the service's problem payload when
// the response body contains one; Raw always holds the body as sent.
type TransactionError struct {
	Method   string `json:"-"`
	Endpoint string `json:"-"`
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Raw      []byte `json:"-"`
}

func (e *TransactionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("stacclient: %s %s failed with status %d", e.Method, e.Endpoint, e.Status)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Temporary reports whether retrying the same call could succeed.
func (e *TransactionError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status == http.StatusTooManyRequests ||
		(e.Status >= 500 && e.Status < 600)
}

// Conflict reports whether the service refused the document because it
// already exists.
func (e *TransactionError) Conflict() bool {
	return e != nil && e.Status == http.StatusConflict
}

// NotFound reports whether the target resource is absent, e.g. an item
// POST into a collection that was never published.
func (e *TransactionError) NotFound() bool {
	return e != nil && e.Status == http.StatusNotFound
}
