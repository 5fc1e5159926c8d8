package raw

import (
	"fmt"
	"io"

	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
)

// Index is the result of the one-pass structural scan: logical block
// positions of every event's header and trailer, the start of each
// longitudinal chain, and the event-id lookup.
type Index struct {
	EventHeaders  []int64
	EventTrailers []int64
	LongBlocks    []int64
	IDToSlot      map[uint64]int
}

// NEvents is the number of indexed events.
func (x Index) NEvents() int { return len(x.EventHeaders) }

// Scan traverses the whole stream once with NextBlock, recording event
// positions and ids, and restores the pre-scan cursor before returning.
func Scan(s *Stream, log logger.Logger) (Index, error) {
	idx := Index{IDToSlot: make(map[uint64]int)}

	restore := s.NextPosition()
	if err := s.SeekTo(0); err != nil {
		return Index{}, err
	}
	defer s.SeekTo(restore)

	runHeaderSeen := false
	prevLong := false
	for {
		pos := s.NextPosition()
		blk, err := s.NextBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Index{}, err
		}

		long := false
		switch blk.Type() {
		case BlockRunHeader:
			if runHeaderSeen {
				log.Warn("multiple run headers", "position", pos)
			}
			runHeaderSeen = true
		case BlockEventHeader:
			id := uint64(blk.AsEventHeader().EventNumber())
			idx.IDToSlot[id] = len(idx.EventHeaders)
			idx.EventHeaders = append(idx.EventHeaders, pos)
		case BlockEventTrailer:
			idx.EventTrailers = append(idx.EventTrailers, pos)
		case BlockLongitudinal:
			// Only the first block of a chain is indexed.
			if !prevLong {
				idx.LongBlocks = append(idx.LongBlocks, pos)
			}
			long = true
		}
		prevLong = long
	}

	if !runHeaderSeen {
		return Index{}, fmt.Errorf("%w: no run header", ErrStructural)
	}
	if len(idx.EventHeaders) != len(idx.EventTrailers) {
		return Index{}, fmt.Errorf("%w: %d event headers but %d trailers",
			ErrStructural, len(idx.EventHeaders), len(idx.EventTrailers))
	}
	if len(idx.IDToSlot) != len(idx.EventHeaders) {
		return Index{}, fmt.Errorf("%w: duplicate event ids", ErrStructural)
	}
	if n := len(idx.LongBlocks); n > 0 && n != len(idx.EventHeaders) {
		log.Warn("longitudinal chain count differs from event count",
			"chains", n, "events", len(idx.EventHeaders))
	}
	return idx, nil
}
