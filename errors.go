package spans

import "github.com/gogpu/spans/internal/status"

// Errors returned by the compositor and its backends.
var (
	// ErrUnsupported reports that a strategy cannot serve a request. The
	// compositor handles it internally by falling back; it only reaches
	// callers from backends that cannot render a request at all.
	ErrUnsupported = status.ErrUnsupported

	// ErrNoMemory reports that a buffer could not be allocated.
	ErrNoMemory = status.ErrNoMemory

	// ErrInvalid reports malformed input.
	ErrInvalid = status.ErrInvalid
)
