package peer

import "errors"

// Sentinel errors partitioning session failures into fatal and non-fatal
// classes.
var (
	// ErrFraming marks a magic mismatch, impossible command, or short read
	// on a sized field. Fatal to the session.
	ErrFraming = errors.New("framing error")

	// ErrSemantic marks a recognised command with a malformed body or a
	// violated protocol invariant (e.g. a stale peer). Fatal to the session.
	ErrSemantic = errors.New("semantic error")
)
