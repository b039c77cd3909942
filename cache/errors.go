package cache

import (
	"errors"
	"fmt"
)

// Error taxonomy: store I/O failures pass through from the commands package
// wrapped with operation context; everything below is produced here. Callers
// can retry I/O failures, but a MaterializeError means the stored shape is
// wrong and re-reading will not help.
var (
	// ErrNotFound means the backing key was absent or empty where a value
	// was required. A key that was never written materializes to this,
	// never to a zero-valued object.
	ErrNotFound = errors.New("cache: not found")

	// ErrMalformedID means an identifier field held a non-numeric value.
	ErrMalformedID = errors.New("cache: malformed identifier")

	// ErrInvalidChannelType means a channel kind outside the platform's
	// coded vocabulary.
	ErrInvalidChannelType = errors.New("cache: invalid channel type")

	// ErrInconsistent means related keys disagree, e.g. a user listed in a
	// guild's voice-state set whose own voice-state hash is missing.
	ErrInconsistent = errors.New("cache: inconsistent state")
)

// MaterializeError reports that a key existed but its contents could not be
// decoded into the target type. Distinct from a store I/O failure.
type MaterializeError struct {
	Key string
	Err error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("cache: materialize %s: %s", e.Key, e.Err)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}
