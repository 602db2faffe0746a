package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the transport's credentials are missing; nothing was
// dialed.
var ErrNotConfigured = errors.New("transport credentials not configured")

// TransportError wraps a failure from an outbound channel. It is reported to
// the caller as a failed dispatch, never raised past the dispatch boundary.
type TransportError struct {
	Channel string // "email" or "whatsapp"
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s dispatch failed: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
