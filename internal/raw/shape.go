package raw

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Thinning selects the per-particle record layout. Thinned records carry a
// statistical weight word; the two layouts also pack a different number of
// sub-blocks into one disk sector.
type Thinning int

const (
	Thinned Thinning = iota
	NotThinned
)

// ParticlesPerBlock is the fixed particle-record count of one sub-block,
// identical for both layouts.
const ParticlesPerBlock = 39

func (t Thinning) String() string {
	if t == Thinned {
		return "thinned"
	}
	return "not-thinned"
}

// WordsPerSubBlock is the number of 32-bit words in one logical block.
func (t Thinning) WordsPerSubBlock() int {
	if t == Thinned {
		return 312
	}
	return 273
}

// BytesPerSubBlock is the byte length of one logical block.
func (t Thinning) BytesPerSubBlock() int { return t.WordsPerSubBlock() * 4 }

// SubBlocksPerSector is the number of logical blocks grouped into one disk
// sector between the framing words.
func (t Thinning) SubBlocksPerSector() int {
	if t == Thinned {
		return 1
	}
	return 21
}

// ParticleWords is the 32-bit word count of one particle record.
func (t Thinning) ParticleWords() int {
	if t == Thinned {
		return 8
	}
	return 7
}

// SectorDataBytes is the payload byte count of one sector, which is also
// the value the framing words carry.
func (t Thinning) SectorDataBytes() int {
	return t.SubBlocksPerSector() * t.BytesPerSubBlock()
}

// Shape is the full description of a file's on-disk framing: the record
// layout plus the framing-word width.
type Shape struct {
	Thinning Thinning
	WordSize int // 32 or 64
}

// PaddingBytes is the framing byte count on each side of a sector.
func (s Shape) PaddingBytes() int { return s.WordSize / 8 }

// SectorBytes is the full on-disk sector size including both framings.
func (s Shape) SectorBytes() int {
	return s.Thinning.SectorDataBytes() + 2*s.PaddingBytes()
}

func (s Shape) String() string {
	return fmt.Sprintf("%s/%d", s.Thinning, s.WordSize)
}

// DetectShape reads the first 8 bytes of src and resolves the file shape
// from the leading framing word, read both as a 64-bit and as a 32-bit
// little-endian integer. The bytes are the beginning of the first sector;
// they are returned so the stream can seed its buffer instead of reading
// them twice.
func DetectShape(src Source) (Shape, []byte, error) {
	prefix := make([]byte, 8)
	if _, err := io.ReadFull(src, prefix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Shape{}, nil, fmt.Errorf("%w: file shorter than 8 bytes", ErrUnknownShape)
		}
		return Shape{}, nil, err
	}

	len64 := binary.LittleEndian.Uint64(prefix)
	len32 := binary.LittleEndian.Uint32(prefix)

	switch {
	case len64 == uint64(Thinned.SectorDataBytes()):
		return Shape{Thinned, 64}, prefix, nil
	case len64 == uint64(NotThinned.SectorDataBytes()):
		return Shape{NotThinned, 64}, prefix, nil
	case len32 == uint32(Thinned.SectorDataBytes()):
		return Shape{Thinned, 32}, prefix, nil
	case len32 == uint32(NotThinned.SectorDataBytes()):
		return Shape{NotThinned, 32}, prefix, nil
	}
	return Shape{}, nil, fmt.Errorf("%w: first word %d", ErrUnknownShape, len32)
}
