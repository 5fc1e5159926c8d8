package corsika

import (
	"errors"

	"github.com/IceCube-SPNO/corsika-reader/internal/longfile"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

// The reader's error taxonomy. Errors from deeper layers wrap these
// sentinels, so callers match with errors.Is.
var (
	// ErrUnknownShape means the file's first framing word matched no
	// known CORSIKA sub-block layout.
	ErrUnknownShape = raw.ErrUnknownShape

	// ErrFraming means a sector failed its padding check. Fatal to the
	// current traversal; the reader stays usable for FindEvent retries.
	ErrFraming = raw.ErrFraming

	// ErrTruncated means the file ended inside a sector or block, or
	// before an event's particle region reached its closing block.
	ErrTruncated = raw.ErrTruncated

	// ErrStructural means a block read at an indexed position did not
	// classify as the recorded type.
	ErrStructural = raw.ErrStructural

	// ErrNotSeekable means random access was requested but the source
	// can neither seek nor reopen.
	ErrNotSeekable = raw.ErrNotSeekable

	// ErrIteratorExhausted means a particle cursor was advanced past its
	// reported end.
	ErrIteratorExhausted = raw.ErrIteratorExhausted

	// ErrMalformedLong means the .long side file failed to parse. The
	// reader downgrades this to an empty profile.
	ErrMalformedLong = longfile.ErrMalformedLong

	// ErrNotFound means the requested event id is not in the index. The
	// cursor does not move.
	ErrNotFound = errors.New("event id not found")

	// ErrNotLoaded means the particle file was opened with
	// WithoutParticleFile and Load has not been called yet.
	ErrNotLoaded = errors.New("particle file not loaded")
)
