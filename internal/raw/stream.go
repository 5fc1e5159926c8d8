package raw

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
)

// Stream decodes the framed sector layout of a shower file into a flat
// sequence of logical blocks. It owns the byte source exclusively; the
// index scanner and particle iterators borrow it one at a time.
type Stream struct {
	src   Source
	shape Shape
	log   logger.Logger

	sector   int64
	subBlock int
	bufValid bool
	buf      []byte
}

// NewStream builds a stream over src with the detected shape. prefix is
// the 8-byte shape-detection read, which is the start of the first sector
// and seeds the buffer so those bytes are not consumed twice.
func NewStream(src Source, shape Shape, prefix []byte, log logger.Logger) (*Stream, error) {
	s := &Stream{
		src:   src,
		shape: shape,
		log:   log,
		buf:   make([]byte, shape.SectorBytes()),
	}
	copy(s.buf, prefix)
	if _, err := io.ReadFull(src, s.buf[len(prefix):]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: first sector incomplete", ErrTruncated)
		}
		return nil, err
	}
	if err := s.checkPadding(); err != nil {
		return nil, err
	}
	s.bufValid = true
	return s, nil
}

// Shape reports the detected file shape.
func (s *Stream) Shape() Shape { return s.shape }

// Thinned reports whether the particle records carry a weight word.
func (s *Stream) Thinned() bool { return s.shape.Thinning == Thinned }

// Seekable reports whether random access avoids the reopen-and-skip path.
func (s *Stream) Seekable() bool { return s.src.Seekable() }

// Close releases the byte source.
func (s *Stream) Close() error { return s.src.Close() }

// NextPosition is the logical index of the block the next NextBlock call
// returns.
func (s *Stream) NextPosition() int64 {
	return int64(s.subBlock) + int64(s.shape.Thinning.SubBlocksPerSector())*s.sector
}

// NextBlock returns the next logical block, reading a fresh sector when
// the buffered one is spent. io.EOF signals a clean end of file.
func (s *Stream) NextBlock() (Block, error) {
	if !s.bufValid {
		if err := s.readSector(); err != nil {
			return Block{}, err
		}
	}
	blk := s.decodeBlock(s.subBlock)
	s.subBlock++
	if s.subBlock >= s.shape.Thinning.SubBlocksPerSector() {
		s.sector++
		s.subBlock = 0
		s.bufValid = false
	}
	return blk, nil
}

// SeekTo positions the stream so the next NextBlock returns the block at
// the given logical index. On a non-seekable source this degrades to
// reopen-and-skip; ErrNotSeekable surfaces when the source cannot reopen.
func (s *Stream) SeekTo(pos int64) error {
	k := int64(s.shape.Thinning.SubBlocksPerSector())
	sector, within := pos/k, int(pos%k)

	if s.src.Seekable() {
		if err := s.src.Seek(sector * int64(s.shape.SectorBytes())); err != nil {
			return err
		}
		s.sector = sector
		s.subBlock = within
		s.bufValid = false
		return nil
	}

	if s.NextPosition() > pos {
		s.log.Debug("rewinding non-seekable source", "target", pos)
		if err := s.src.Reopen(); err != nil {
			return fmt.Errorf("%w: reopen failed: %v", ErrNotSeekable, err)
		}
		s.sector = 0
		s.subBlock = 0
		s.bufValid = false
	}
	for s.NextPosition() < pos {
		if _, err := s.NextBlock(); err != nil {
			return err
		}
	}
	return nil
}

// Valid checks that the stream starts with a run header, restoring the
// cursor afterwards. Non-seekable streams cannot be probed without losing
// their position and report true.
func (s *Stream) Valid() bool {
	if !s.src.Seekable() {
		return true
	}
	pos := s.NextPosition()
	defer s.SeekTo(pos)

	if err := s.SeekTo(0); err != nil {
		return false
	}
	blk, err := s.NextBlock()
	if err != nil {
		return false
	}
	return blk.Type() == BlockRunHeader
}

func (s *Stream) readSector() error {
	if _, err := io.ReadFull(s.src, s.buf); err != nil {
		switch err {
		case io.EOF:
			return io.EOF
		case io.ErrUnexpectedEOF:
			return fmt.Errorf("%w: short read in sector %d", ErrTruncated, s.sector)
		default:
			return err
		}
	}
	if err := s.checkPadding(); err != nil {
		return err
	}
	s.bufValid = true
	return nil
}

// checkPadding enforces the sector framing: the leading and trailing
// words must match pairwise, and the first word must equal the layout's
// payload byte count.
func (s *Stream) checkPadding() error {
	p := s.shape.PaddingBytes()
	for off := 0; off < p; off += 4 {
		start := binary.LittleEndian.Uint32(s.buf[off:])
		end := binary.LittleEndian.Uint32(s.buf[len(s.buf)-p+off:])
		if start != end {
			return fmt.Errorf("%w: sector %d framing %d != %d",
				ErrFraming, s.sector, start, end)
		}
	}
	if got := binary.LittleEndian.Uint32(s.buf); got != uint32(s.shape.Thinning.SectorDataBytes()) {
		return fmt.Errorf("%w: sector %d length word %d, want %d",
			ErrFraming, s.sector, got, s.shape.Thinning.SectorDataBytes())
	}
	return nil
}

func (s *Stream) decodeBlock(i int) Block {
	nw := s.shape.Thinning.WordsPerSubBlock()
	off := s.shape.PaddingBytes() + i*s.shape.Thinning.BytesPerSubBlock()
	blk := Block{
		words:    make([]float32, nw),
		thinning: s.shape.Thinning,
	}
	copy(blk.tag[:], s.buf[off:off+4])
	for w := 0; w < nw; w++ {
		blk.words[w] = math.Float32frombits(
			binary.LittleEndian.Uint32(s.buf[off+4*w:]))
	}
	return blk
}
