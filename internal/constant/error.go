package constant

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned by the store when no row matches. The queue
	// manager turns it into an empty result.
	ErrNotFound = errors.New("not found")

	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable wraps store connectivity and driver failures.
	ErrUnavailable = errors.New("store unavailable")

	// ErrUnsupported is returned by priority and SLA operations when the
	// running edition does not provide them.
	ErrUnsupported = errors.New("not available in this edition")

	ErrAlreadyQueued    = errors.New("room already has a queued inquiry")
	ErrNoAgentAvailable = errors.New("no agent available")
)
