package raw

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
)

// blockSpec is one logical block of a synthetic file. Control blocks
// carry a tag; particle blocks leave it empty.
type blockSpec struct {
	tag   string
	words []float32
}

// controlBlock builds a tagged block with 1-based word positions set.
func controlBlock(th Thinning, tag string, set map[int]float32) blockSpec {
	words := make([]float32, th.WordsPerSubBlock())
	for pos, v := range set {
		words[pos-1] = v
	}
	return blockSpec{tag: tag, words: words}
}

// particleBlock packs records into one block, zero-padding the rest.
func particleBlock(th Thinning, recs []ParticleRecord) blockSpec {
	words := make([]float32, th.WordsPerSubBlock())
	pw := th.ParticleWords()
	for i, r := range recs {
		w := words[i*pw:]
		w[0] = r.Description
		w[1], w[2], w[3] = r.Px, r.Py, r.Pz
		w[4], w[5] = r.X, r.Y
		w[6] = r.T
		if th == Thinned {
			w[7] = r.Weight
		}
	}
	return blockSpec{words: words}
}

// longBlock builds a LONG block with the packed steps-and-blocks word and
// the given entries.
func longBlock(th Thinning, eventNumber, stepsAndBlocks, blockNumber float32, entries []LongEntry) blockSpec {
	words := make([]float32, th.WordsPerSubBlock())
	words[1] = eventNumber
	words[4] = stepsAndBlocks
	words[5] = blockNumber
	for i, e := range entries {
		w := words[LongHeaderWords+i*LongEntryWords:]
		w[0], w[1] = e.Depth, e.Gamma
		w[2], w[3] = e.EPlus, e.EMinus
		w[4], w[5] = e.MuPlus, e.MuMinus
		w[6], w[7] = e.Hadron, e.Charged
		w[8], w[9] = e.Nuclei, e.Cherenkov
	}
	return blockSpec{tag: "LONG", words: words}
}

// encodeFile lays the blocks out in framed sectors, padding the last
// sector with zero particle blocks.
func encodeFile(t *testing.T, shape Shape, blocks []blockSpec) []byte {
	t.Helper()
	k := shape.Thinning.SubBlocksPerSector()
	for len(blocks)%k != 0 {
		blocks = append(blocks, blockSpec{words: make([]float32, shape.Thinning.WordsPerSubBlock())})
	}

	var out []byte
	framing := make([]byte, shape.PaddingBytes())
	binary.LittleEndian.PutUint32(framing, uint32(shape.Thinning.SectorDataBytes()))

	for s := 0; s < len(blocks)/k; s++ {
		out = append(out, framing...)
		for _, b := range blocks[s*k : (s+1)*k] {
			if len(b.words) != shape.Thinning.WordsPerSubBlock() {
				t.Fatalf("block has %d words, want %d", len(b.words), shape.Thinning.WordsPerSubBlock())
			}
			start := len(out)
			for _, w := range b.words {
				var buf [4]byte
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(w))
				out = append(out, buf[:]...)
			}
			copy(out[start:], b.tag)
		}
		out = append(out, framing...)
	}
	return out
}

func writeFile(t *testing.T, shape Shape, blocks []blockSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DAT000001")
	if err := os.WriteFile(path, encodeFile(t, shape, blocks), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// singleEventBlocks is the canonical fixture: a run with one event whose
// particle region holds the given records.
func singleEventBlocks(th Thinning, eventID float32, recs []ParticleRecord) []blockSpec {
	return []blockSpec{
		controlBlock(th, "RUNH", map[int]float32{2: 1, 5: 1, 6: 1.4e5}),
		controlBlock(th, "EVTH", map[int]float32{
			2:  eventID,
			3:  14,    // proton primary
			4:  1e6,   // GeV
			7:  2.5e6, // z first, cm
			11: 0,     // vertical
			47: 1,     // one observation level
			48: 1.4e5, // at 1400 m
		}),
		particleBlock(th, recs),
		controlBlock(th, "EVTE", map[int]float32{2: eventID, 7: float32(len(recs))}),
		controlBlock(th, "RUNE", map[int]float32{2: 1}),
	}
}

// longChainEntries generates the entries of a two-block chain: the first
// block is full (the zero-depth early-stop only fires on a partial
// block), the second carries three more steps.
func longChainEntries(th Thinning) []LongEntry {
	n := LongEntriesPerBlock(th) + 3
	entries := make([]LongEntry, n)
	for i := range entries {
		entries[i] = LongEntry{
			Depth:   float32(10 * (i + 1)),
			Charged: float32(100 * (i + 1)),
			Gamma:   float32(i),
		}
	}
	return entries
}

// longChain packs the entries into two consecutive LONG blocks with the
// packed steps-and-blocks header word.
func longChain(th Thinning, eventNumber float32) []blockSpec {
	entries := longChainEntries(th)
	per := LongEntriesPerBlock(th)
	header := float32(len(entries)*100 + 2)
	return []blockSpec{
		longBlock(th, eventNumber, header, 1, entries[:per]),
		longBlock(th, eventNumber, header, 2, entries[per:]),
	}
}

func openStream(t *testing.T, path string) *Stream {
	t.Helper()
	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	shape, prefix, err := DetectShape(src)
	if err != nil {
		t.Fatalf("DetectShape: %v", err)
	}
	s, err := NewStream(src, shape, prefix, logger.Discard())
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testParticles returns n records at observation level 1 with distinct
// descriptions.
func testParticles(n int) []ParticleRecord {
	recs := make([]ParticleRecord, n)
	for i := range recs {
		recs[i] = ParticleRecord{
			Description: float32(5001 + 10*i), // mu+ at level 1, generations 0..n
			Px:          float32(i),
			T:           100,
			Weight:      1,
		}
	}
	return recs
}
