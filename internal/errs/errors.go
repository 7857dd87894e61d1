package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnprocessable is used for semantic validation failures (HTTP 422)
	ErrUnprocessable = errors.New("unprocessable")
	// ErrStorageUnavailable signals that the underlying store could not be
	// reached. Callers decide whether to retry; the compute layer never does.
	ErrStorageUnavailable = errors.New("storage_unavailable")
)
