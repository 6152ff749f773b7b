package vtcore

import "errors"

// Sentinel errors returned by the repository and text model. Wrap with
// fmt.Errorf("...: %w", ErrX) at the point of detection so callers can
// still errors.Is against the sentinel.
var (
	// ErrNotFound is returned when a repository tag has no live entry.
	ErrNotFound = errors.New("vtcore: tag not found")

	// ErrCapacityExhausted is returned when the repository's tag space is full.
	ErrCapacityExhausted = errors.New("vtcore: repository capacity exhausted")

	// ErrStreamError is returned when serialized bytes are truncated or malformed.
	ErrStreamError = errors.New("vtcore: corrupt entry stream")

	// ErrBadArgument is returned for out-of-range row/col addressing or a
	// misordered scroll region. These indicate a caller bug rather than a
	// recoverable runtime condition.
	ErrBadArgument = errors.New("vtcore: bad argument")
)
