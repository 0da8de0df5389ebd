package termcore

import "errors"

// Sentinel errors. Returned errors wrap these; test with errors.Is.
var (
	// ErrSpawnFailed is returned when the child process or its PTY cannot be started.
	ErrSpawnFailed = errors.New("spawn failed")

	// ErrWriteFailed is returned when writing to the PTY fails. The session ends.
	ErrWriteFailed = errors.New("write to pty failed")

	// ErrResizeFailed is returned when the PTY rejects a size change.
	ErrResizeFailed = errors.New("resize pty failed")

	// ErrClosed is returned when operations are attempted on a closed terminal.
	ErrClosed = errors.New("terminal is closed")

	// ErrInvalidSize is returned when terminal size is invalid.
	ErrInvalidSize = errors.New("invalid terminal size")
)
