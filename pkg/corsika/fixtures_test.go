package corsika

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

func withQuietLogger() Option { return WithLogger(logger.Discard()) }

// testBlock is one logical block of a synthetic shower file. Control
// blocks carry a tag and 1-based word settings; particle blocks carry
// packed records.
type testBlock struct {
	tag   string
	words []float32
}

func control(th raw.Thinning, tag string, set map[int]float32) testBlock {
	words := make([]float32, th.WordsPerSubBlock())
	for pos, v := range set {
		words[pos-1] = v
	}
	return testBlock{tag: tag, words: words}
}

func particles(th raw.Thinning, descriptions []float32) testBlock {
	words := make([]float32, th.WordsPerSubBlock())
	pw := th.ParticleWords()
	for i, d := range descriptions {
		w := words[i*pw:]
		w[0] = d
		w[6] = 100 // arrival time, ns
		if th == raw.Thinned {
			w[7] = 1
		}
	}
	return testBlock{words: words}
}

func longChainBlock(th raw.Thinning, entries [][2]float32) testBlock {
	words := make([]float32, th.WordsPerSubBlock())
	words[4] = float32(len(entries)*100 + 1)
	words[5] = 1
	for i, e := range entries {
		w := words[raw.LongHeaderWords+i*raw.LongEntryWords:]
		w[0] = e[0] // depth
		w[7] = e[1] // charged
	}
	return testBlock{tag: "LONG", words: words}
}

// writeShowerFile frames the blocks into sectors at the given path.
func writeShowerFile(t *testing.T, path string, shape raw.Shape, blocks []testBlock) {
	t.Helper()
	k := shape.Thinning.SubBlocksPerSector()
	for len(blocks)%k != 0 {
		blocks = append(blocks, testBlock{words: make([]float32, shape.Thinning.WordsPerSubBlock())})
	}

	var out []byte
	framing := make([]byte, shape.PaddingBytes())
	binary.LittleEndian.PutUint32(framing, uint32(shape.Thinning.SectorDataBytes()))

	for s := 0; s < len(blocks)/k; s++ {
		out = append(out, framing...)
		for _, b := range blocks[s*k : (s+1)*k] {
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
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// standardHeader is a one-level vertical proton event header.
func standardHeader(th raw.Thinning, eventID float32) testBlock {
	return control(th, "EVTH", map[int]float32{
		2:  eventID,
		3:  14,    // proton
		4:  1e6,   // GeV
		7:  2.5e6, // first interaction at 25 km
		11: 0,     // vertical
		47: 1,
		48: 1.4e5, // observation level at 1400 m
	})
}

// oneEventFile writes a run with a single event carrying the given
// particle descriptions.
func oneEventFile(t *testing.T, shape raw.Shape, eventID float32, descriptions []float32) string {
	t.Helper()
	th := shape.Thinning
	path := filepath.Join(t.TempDir(), "DAT000001")
	writeShowerFile(t, path, shape, []testBlock{
		control(th, "RUNH", map[int]float32{2: 1, 5: 1, 6: 1.4e5}),
		standardHeader(th, eventID),
		particles(th, descriptions),
		control(th, "EVTE", map[int]float32{2: eventID, 7: float32(len(descriptions))}),
		control(th, "RUNE", map[int]float32{2: 1}),
	})
	return path
}

func openTestFile(t *testing.T, path string, opts ...Option) *ShowerFile {
	t.Helper()
	opts = append(opts, withQuietLogger())
	f, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func writeGzipFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DAT000001.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func drainCursor(t *testing.T, c *Cursor) []Particle {
	t.Helper()
	var out []Particle
	for {
		p, err := c.Next()
		if err != nil {
			return out
		}
		out = append(out, p)
	}
}
