package domain

import "errors"

// Domain errors represent error conditions in turingcv.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("turingcv: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("turingcv: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("turingcv: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("turingcv: invalid configuration")

	// ErrUnknownEncoder is returned for an encoder profile name that does not exist.
	ErrUnknownEncoder = errors.New("turingcv: unknown encoder profile")

	// ErrEdgeInProgress is returned when a clock edge arrives while the
	// previous one is still being handled. The late edge is dropped.
	ErrEdgeInProgress = errors.New("turingcv: edge in progress")
)
