package raw

// BlockType classifies a logical block by its leading 4 bytes.
type BlockType int

const (
	BlockParticles BlockType = iota
	BlockRunHeader
	BlockRunEnd
	BlockEventHeader
	BlockEventTrailer
	BlockLongitudinal
)

func (t BlockType) String() string {
	switch t {
	case BlockRunHeader:
		return "RUNH"
	case BlockRunEnd:
		return "RUNE"
	case BlockEventHeader:
		return "EVTH"
	case BlockEventTrailer:
		return "EVTE"
	case BlockLongitudinal:
		return "LONG"
	default:
		return "particles"
	}
}

// Block is one logical sub-block: its 32-bit words decoded as floats plus
// the raw leading bytes used for classification.
type Block struct {
	words    []float32
	tag      [4]byte
	thinning Thinning
}

// Type matches the leading bytes against the control tags. Anything
// untagged is a particle block.
func (b Block) Type() BlockType {
	switch string(b.tag[:]) {
	case "RUNH":
		return BlockRunHeader
	case "RUNE":
		return BlockRunEnd
	case "EVTH":
		return BlockEventHeader
	case "EVTE":
		return BlockEventTrailer
	case "LONG":
		return BlockLongitudinal
	}
	return BlockParticles
}

// IsControl reports whether the block is one of the tagged record types.
func (b Block) IsControl() bool { return b.Type() != BlockParticles }

// Words exposes the decoded 32-bit words of the block.
func (b Block) Words() []float32 { return b.words }

// word returns the 1-based CORSIKA record word, the numbering the format
// documentation uses.
func (b Block) word(n int) float32 { return b.words[n-1] }

// RunHeader is the typed view of a RUNH block.
type RunHeader struct{ Block }

// AsRunHeader reinterprets the block; the caller checks Type first.
func (b Block) AsRunHeader() RunHeader { return RunHeader{b} }

func (h RunHeader) RunNumber() int          { return int(h.word(2)) }
func (h RunHeader) Date() int               { return int(h.word(3)) }
func (h RunHeader) Version() float32        { return h.word(4) }
func (h RunHeader) NObservationLevels() int { return int(h.word(5)) }
func (h RunHeader) ObservationHeight(i int) float32 {
	return h.word(5 + i) // levels 1..10 occupy words 6..15
}

// EventHeader is the typed view of an EVTH block. Word positions follow
// the CORSIKA event-header record.
type EventHeader struct{ Block }

func (b Block) AsEventHeader() EventHeader { return EventHeader{b} }

func (h EventHeader) EventNumber() int          { return int(h.word(2)) }
func (h EventHeader) ParticleID() int           { return int(h.word(3)) }
func (h EventHeader) Energy() float32           { return h.word(4) }
func (h EventHeader) StartingAltitude() float32 { return h.word(5) }
func (h EventHeader) ZFirst() float32           { return h.word(7) }
func (h EventHeader) Px() float32               { return h.word(8) }
func (h EventHeader) Py() float32               { return h.word(9) }
func (h EventHeader) Pz() float32               { return h.word(10) }
func (h EventHeader) Zenith() float32           { return h.word(11) }
func (h EventHeader) Azimuth() float32          { return h.word(12) }
func (h EventHeader) NObservationLevels() int   { return int(h.word(47)) }
func (h EventHeader) ObservationHeight(i int) float32 {
	return h.word(47 + i) // levels 1..10 occupy words 48..57
}
func (h EventHeader) CurvedFlag() bool        { return h.word(79) != 0 }
func (h EventHeader) StartingHeight() float32 { return h.word(158) }

// EventTrailer is the typed view of an EVTE block.
type EventTrailer struct{ Block }

func (b Block) AsEventTrailer() EventTrailer { return EventTrailer{b} }

func (t EventTrailer) EventNumber() int   { return int(t.word(2)) }
func (t EventTrailer) Photons() float32   { return t.word(3) }
func (t EventTrailer) Electrons() float32 { return t.word(4) }
func (t EventTrailer) Hadrons() float32   { return t.word(5) }
func (t EventTrailer) Muons() float32     { return t.word(6) }
func (t EventTrailer) Particles() float32 { return t.word(7) }

// Longitudinal sub-block layout: a 13-word header followed by fixed-width
// entries of 10 words each.
const (
	LongHeaderWords = 13
	LongEntryWords  = 10
)

// LongEntriesPerBlock is the entry capacity of one longitudinal block for
// the given layout.
func LongEntriesPerBlock(t Thinning) int {
	return (t.WordsPerSubBlock() - LongHeaderWords) / LongEntryWords
}

// LongitudinalBlock is the typed view of a LONG block.
type LongitudinalBlock struct{ Block }

func (b Block) AsLongitudinal() LongitudinalBlock { return LongitudinalBlock{b} }

func (l LongitudinalBlock) EventNumber() int     { return int(l.word(2)) }
func (l LongitudinalBlock) ParticleID() int      { return int(l.word(3)) }
func (l LongitudinalBlock) TotalEnergy() float32 { return l.word(4) }

// StepsAndBlocks is the packed header word: steps*100 + blocks.
func (l LongitudinalBlock) StepsAndBlocks() int { return int(l.word(5)) }
func (l LongitudinalBlock) BlockNumber() int    { return int(l.word(6)) }

// LongEntry is one depth step of an in-stream longitudinal block.
type LongEntry struct {
	Depth     float32
	Gamma     float32
	EPlus     float32
	EMinus    float32
	MuPlus    float32
	MuMinus   float32
	Hadron    float32
	Charged   float32
	Nuclei    float32
	Cherenkov float32
}

// Entry decodes the i-th entry of the block.
func (l LongitudinalBlock) Entry(i int) LongEntry {
	w := l.words[LongHeaderWords+i*LongEntryWords:]
	return LongEntry{
		Depth:     w[0],
		Gamma:     w[1],
		EPlus:     w[2],
		EMinus:    w[3],
		MuPlus:    w[4],
		MuMinus:   w[5],
		Hadron:    w[6],
		Charged:   w[7],
		Nuclei:    w[8],
		Cherenkov: w[9],
	}
}

// ParticleRecord is one decoded ground-particle record. Description packs
// id*1000 + hadronic-generation*10 + observation-level; Weight is 1 for
// not-thinned files.
type ParticleRecord struct {
	Description float32
	Px, Py, Pz  float32
	X, Y        float32
	T           float32
	Weight      float32
}

// ID is the bare CORSIKA particle code of the record.
func (p ParticleRecord) ID() int { return int(p.Description) / 1000 }

// ObservationLevel is the level the particle was recorded at, 1-based.
func (p ParticleRecord) ObservationLevel() int { return int(p.Description) % 10 }

// HadronicGeneration counts hadronic interactions above the particle.
func (p ParticleRecord) HadronicGeneration() int { return (int(p.Description) % 1000) / 10 }

// Particle decodes the i-th particle record of a particle block.
func (b Block) Particle(i int) ParticleRecord {
	w := b.words[i*b.thinning.ParticleWords():]
	rec := ParticleRecord{
		Description: w[0],
		Px:          w[1],
		Py:          w[2],
		Pz:          w[3],
		X:           w[4],
		Y:           w[5],
		T:           w[6],
		Weight:      1,
	}
	if b.thinning == Thinned {
		rec.Weight = w[7]
	}
	return rec
}
