package registry

import "errors"

// Sentinel errors returned by registry operations. All of them are terminal
// for the current operation: no retry happens internally and no partial
// mutation is left behind.
var (
	// ErrNotFound indicates a lookup of an unknown counter identifier.
	ErrNotFound = errors.New("counter not found")

	// ErrNotOwner indicates a mutation attempted by a caller other than the
	// counter's recorded owner.
	ErrNotOwner = errors.New("caller is not the counter owner")

	// ErrAlreadyInitialized indicates a second initialization attempt.
	// Re-initialization is a programming error and never silently resets
	// state.
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrNotInitialized indicates an operation on a registry whose entropy
	// pool has not been initialized yet.
	ErrNotInitialized = errors.New("registry not initialized")
)

// IsNotFound returns true if the error means the counter does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotOwner returns true if the error means the caller does not own the
// counter.
func IsNotOwner(err error) bool {
	return errors.Is(err, ErrNotOwner)
}
