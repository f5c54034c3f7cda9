// Package status defines the sentinel errors shared by the rendering
// packages. The root package re-exports them.
package status

import "errors"

var (
	// ErrUnsupported reports that a strategy cannot handle a request and the
	// caller should fall back to a more general one.
	ErrUnsupported = errors.New("spans: unsupported")

	// ErrNothingToDo reports that an operation has no visible effect.
	ErrNothingToDo = errors.New("spans: nothing to do")

	// ErrNoMemory reports that a buffer could not be allocated.
	ErrNoMemory = errors.New("spans: out of memory")

	// ErrInvalid reports malformed input such as a negative surface size.
	ErrInvalid = errors.New("spans: invalid argument")
)
