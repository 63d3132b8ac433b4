package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed input to extraction or normalization.
	// It is fatal for the single document only.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig marks a configuration error detected at construction time
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TransientNetworkError wraps a failure that is worth retrying:
// transport errors, timeouts and truncated bodies.
type TransientNetworkError struct {
	URL string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error fetching %s: %v", e.URL, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err (or anything it wraps) is a TransientNetworkError
func IsTransient(err error) bool {
	var te *TransientNetworkError
	return errors.As(err, &te)
}
