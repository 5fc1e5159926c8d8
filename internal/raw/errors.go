package raw

import "errors"

// Error taxonomy of the raw layer. The facade re-exports these so callers
// can match with errors.Is without importing internal packages.
var (
	// ErrUnknownShape means the first framing word matched no known
	// sub-block layout.
	ErrUnknownShape = errors.New("unknown corsika file shape")

	// ErrFraming means a sector's leading and trailing padding disagree,
	// or the framing word does not match the layout constant.
	ErrFraming = errors.New("sector padding mismatch")

	// ErrTruncated means the file ended in the middle of a sector, or
	// before an event's particle region reached its closing block.
	ErrTruncated = errors.New("truncated corsika file")

	// ErrStructural means a block's classification contradicts the
	// scanned index.
	ErrStructural = errors.New("block type contradicts index")

	// ErrNotSeekable means random access was requested on a source that
	// can neither seek nor reopen.
	ErrNotSeekable = errors.New("source is not seekable")

	// ErrIteratorExhausted means Next was called after the particle
	// iterator already reported the end of the event.
	ErrIteratorExhausted = errors.New("particle iterator exhausted")
)
