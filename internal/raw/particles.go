package raw

import (
	"fmt"
	"io"
)

// ParticleIterator walks the particle blocks of one event. It borrows the
// stream; advancing anything else on the same stream invalidates it until
// the next Rewind.
type ParticleIterator struct {
	s     *Stream
	start int64

	block Block
	idx   int
	valid bool
}

// NewParticleIterator builds an iterator whose first block is the one at
// start. A zero start means "wherever the stream is now"; particles are
// never in block zero.
func NewParticleIterator(s *Stream, start int64) (*ParticleIterator, error) {
	if start == 0 {
		start = s.NextPosition()
	}
	it := &ParticleIterator{s: s, start: start}
	if err := it.Rewind(); err != nil {
		return nil, err
	}
	return it, nil
}

// Rewind repositions the stream at the event's first particle block and
// arms the iterator.
func (it *ParticleIterator) Rewind() error {
	it.idx = ParticlesPerBlock
	it.valid = true
	return it.s.SeekTo(it.start)
}

// Next returns the next particle record. io.EOF signals the end of the
// event's particle region (the first control or longitudinal block);
// calling Next again afterwards is ErrIteratorExhausted. Zero-description
// padding records are skipped.
func (it *ParticleIterator) Next() (ParticleRecord, error) {
	for {
		if it.idx == ParticlesPerBlock {
			if !it.valid {
				return ParticleRecord{}, ErrIteratorExhausted
			}
			blk, err := it.s.NextBlock()
			if err == io.EOF {
				it.valid = false
				return ParticleRecord{}, fmt.Errorf("%w: event not terminated", ErrTruncated)
			}
			if err != nil {
				it.valid = false
				return ParticleRecord{}, err
			}
			if blk.IsControl() {
				// End of the particle region.
				it.valid = false
				return ParticleRecord{}, io.EOF
			}
			it.block = blk
			it.idx = 0
		}
		rec := it.block.Particle(it.idx)
		it.idx++
		if rec.Description == 0 {
			continue
		}
		return rec, nil
	}
}
