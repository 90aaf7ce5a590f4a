// Package sender delivers marshaled log payloads to their destination.
package sender

import (
	"context"
	"fmt"
)

// Sender posts one marshaled payload per call. Implementations must be safe
// for sequential reuse across a whole run.
type Sender interface {
	// Send delivers a single payload. A non-nil error means the payload was
	// not accepted; the caller decides whether to keep going.
	Send(ctx context.Context, payload []byte) error

	// Close releases any connections held by the sender.
	Close() error
}

// StatusError reports a response that arrived but did not carry the one
// status code the collector uses to acknowledge a log: 200.
type StatusError struct {
	// Code is the HTTP status code of the response.
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}
