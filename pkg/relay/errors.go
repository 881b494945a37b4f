// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package relay

import "fmt"

// Kind classifies relay failures so callers and tests can distinguish causes
// without matching on message text.
type Kind int

const (
	// KindConfig: the upstream API key is missing; upstream was never contacted.
	KindConfig Kind = iota
	// KindBadRequest: the client body was not valid JSON.
	KindBadRequest
	// KindUpstreamRejected: upstream answered, or failed to answer, before any
	// stream bytes were committed to the client.
	KindUpstreamRejected
	// KindStreamInterrupted: upstream dropped after streaming began. Never
	// surfaced as a structured body; the client stream simply ends.
	KindStreamInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindBadRequest:
		return "bad_request"
	case KindUpstreamRejected:
		return "upstream_rejected"
	case KindStreamInterrupted:
		return "stream_interrupted"
	default:
		return "unknown"
	}
}

// Error pairs a failure kind with the HTTP status and message emitted to the
// client, retaining the underlying cause for logging.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *Error) Unwrap() error {
	return e.Err
}
