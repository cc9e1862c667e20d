package core

import (
	"errors"
	"fmt"
	"time"
)

// Failure taxonomy. Handlers map these onto HTTP statuses; everything
// else inside the pipeline degrades instead of propagating.
var (
	// ErrUnavailable marks an optional feature whose configuration is
	// missing. Not a fault: the dependent feature is simply off.
	ErrUnavailable = errors.New("feature unavailable")

	// ErrProvider marks a transient upstream failure, distinct from the
	// unconfigured case.
	ErrProvider = errors.New("provider failure")

	// ErrValidation marks an incomplete or malformed request.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a privileged call without the shared secret.
	ErrUnauthorized = errors.New("unauthorized")
)

// RateLimitError rejects a request with a hint for when the window resets.
type RateLimitError struct {
	Reset time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.Reset)
}
