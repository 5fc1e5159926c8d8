// Package corsika reads CORSIKA air-shower output: the binary ground
// particle file in its four shape variants (thinned or not, 32- or 64-bit
// framing) and the textual .long companion. A ShowerFile scans the binary
// file once, indexes its events, and hands out showers with lazy particle
// cursors and longitudinal profiles.
package corsika

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
	"github.com/IceCube-SPNO/corsika-reader/internal/longfile"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

// ShowerFile is the reader facade over one shower file and its optional
// .long companion. It is not safe for concurrent use; the cursors it
// hands out borrow its block stream.
type ShowerFile struct {
	path     string
	longPath string
	log      logger.Logger

	obsLevel            int
	keepMuProd          bool
	requireParticleFile bool
	toPDG               ParticleTranslator
	consts              Constants

	stream  *raw.Stream
	index   raw.Index
	scanned bool
	long    *longfile.File

	slot    int
	current *Shower
}

// Open opens the shower file at path, locating and parsing the sibling
// .long file when present. Unless WithoutParticleFile is given, the
// binary file is opened, its shape detected, and its events scanned.
func Open(path string, opts ...Option) (*ShowerFile, error) {
	f := &ShowerFile{
		path:                path,
		obsLevel:            1,
		requireParticleFile: true,
		toPDG:               DefaultParticleTranslator(),
		consts:              DefaultConstants(),
		slot:                -1,
	}
	for _, o := range opts {
		o(f)
	}
	if f.log == nil {
		f.log = logger.Default()
	}
	f.log = f.log.With("reader_id", uuid.NewString(), "path", path)

	if p := longCompanion(path); p != "" {
		lf, err := longfile.Open(p)
		if err != nil {
			// Local recovery: a bad side file costs the profiles, not
			// the reader.
			f.log.Warn("ignoring unreadable .long companion", "long", p, "error", err)
		} else {
			f.longPath = p
			f.long = lf
		}
	}

	if f.requireParticleFile {
		if err := f.Load(); err != nil {
			return nil, err
		}
		if err := f.scan(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// longCompanion swaps the path's extension for .long and checks that the
// result is a regular file.
func longCompanion(path string) string {
	p := strings.TrimSuffix(path, filepath.Ext(path)) + ".long"
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return p
}

// Load opens the binary particle file. It is a no-op when already loaded;
// Open calls it unless WithoutParticleFile was given.
func (f *ShowerFile) Load() error {
	if f.stream != nil {
		return nil
	}
	src, err := raw.OpenSource(f.path)
	if err != nil {
		return err
	}
	shape, prefix, err := raw.DetectShape(src)
	if err != nil {
		src.Close()
		return err
	}
	stream, err := raw.NewStream(src, shape, prefix, f.log)
	if err != nil {
		src.Close()
		return err
	}
	f.stream = stream
	f.log.Debug("opened shower file", "shape", shape.String())
	return nil
}

// Close releases the underlying sources. The reader is unusable after.
func (f *ShowerFile) Close() error {
	f.index = raw.Index{}
	f.scanned = false
	f.current = nil
	f.long = nil
	if f.stream == nil {
		return nil
	}
	err := f.stream.Close()
	f.stream = nil
	return err
}

// FileShape describes the detected binary layout of a shower file.
type FileShape struct {
	Thinned  bool
	WordSize int
}

func (s FileShape) String() string {
	t := "not-thinned"
	if s.Thinned {
		t = "thinned"
	}
	return fmt.Sprintf("%s/%d", t, s.WordSize)
}

// Shape reports the detected file shape. Valid once loaded.
func (f *ShowerFile) Shape() (FileShape, error) {
	if f.stream == nil {
		return FileShape{}, ErrNotLoaded
	}
	sh := f.stream.Shape()
	return FileShape{Thinned: sh.Thinning == raw.Thinned, WordSize: sh.WordSize}, nil
}

// LongFileInfo describes a parsed .long companion.
type LongFileInfo struct {
	Path               string
	Sections           int
	Dx                 float64 // depth bin width, g/cm²
	SlantDepth         bool
	HasParticleProfile bool
	HasEnergyDeposit   bool
}

// LongFile reports whether a .long companion was found and parsed, and
// its metadata.
func (f *ShowerFile) LongFile() (LongFileInfo, bool) {
	if f.long == nil {
		return LongFileInfo{}, false
	}
	return LongFileInfo{
		Path:               f.longPath,
		Sections:           f.long.Size(),
		Dx:                 f.long.Dx(),
		SlantDepth:         f.long.IsSlantDepth(),
		HasParticleProfile: f.long.HasParticleProfile(),
		HasEnergyDeposit:   f.long.HasEnergyDeposit(),
	}, true
}

// IsValid reports whether the loaded stream starts with a run header and
// frames correctly.
func (f *ShowerFile) IsValid() bool {
	return f.stream != nil && f.stream.Valid()
}

// IsValidFile probes whether path is a readable shower file without
// keeping a reader around.
func IsValidFile(path string) bool {
	f, err := Open(path, WithLogger(logger.Discard()))
	if err != nil {
		return false
	}
	defer f.Close()
	return f.IsValid()
}

func (f *ShowerFile) scan() error {
	if f.scanned {
		return nil
	}
	if f.stream == nil {
		return ErrNotLoaded
	}
	idx, err := raw.Scan(f.stream, f.log)
	if err != nil {
		return err
	}
	f.index = idx
	f.scanned = true
	f.log.Debug("scan complete", "events", idx.NEvents(), "long_chains", len(idx.LongBlocks))
	return nil
}

// NEvents returns the number of events, scanning the file first if
// needed.
func (f *ShowerFile) NEvents() (int, error) {
	if err := f.scan(); err != nil {
		return 0, err
	}
	return f.index.NEvents(), nil
}

// FindEvent positions the reader on the event with the given id and reads
// it. ErrNotFound leaves the cursor where it was.
func (f *ShowerFile) FindEvent(id uint64) error {
	if err := f.scan(); err != nil {
		return err
	}
	slot, ok := f.index.IDToSlot[id]
	if !ok {
		return fmt.Errorf("%w: event %d", ErrNotFound, id)
	}
	f.slot = slot
	return f.readCurrent()
}

// ReadNextEvent advances to the next event and reads it. io.EOF signals
// the end of the file.
func (f *ShowerFile) ReadNextEvent() error {
	if err := f.scan(); err != nil {
		return err
	}
	if f.slot+1 >= f.index.NEvents() {
		f.slot = f.index.NEvents()
		return io.EOF
	}
	f.slot++
	return f.readCurrent()
}

// CurrentShower returns the last event read by FindEvent or
// ReadNextEvent, or nil before the first read.
func (f *ShowerFile) CurrentShower() *Shower { return f.current }

// readCurrent materialises the shower at the current slot: header and
// trailer with classification checks, observation-level clamp, time
// shift, profile, and finally the particle cursor, built last so the
// stream is left positioned at the event's first particle block.
func (f *ShowerFile) readCurrent() error {
	if f.stream == nil {
		return ErrNotLoaded
	}
	if f.slot < 0 || f.slot >= f.index.NEvents() {
		return io.EOF
	}

	hpos := f.index.EventHeaders[f.slot]
	if err := f.stream.SeekTo(hpos); err != nil {
		return err
	}
	blk, err := f.stream.NextBlock()
	if err != nil {
		return fmt.Errorf("event header at block %d: %w", hpos, err)
	}
	if blk.Type() != raw.BlockEventHeader {
		return fmt.Errorf("%w: block %d is %s, want EVTH", ErrStructural, hpos, blk.Type())
	}
	hdr := blk.AsEventHeader()

	tpos := f.index.EventTrailers[f.slot]
	if err := f.stream.SeekTo(tpos); err != nil {
		return err
	}
	blk, err = f.stream.NextBlock()
	if err != nil {
		return fmt.Errorf("event trailer at block %d: %w", tpos, err)
	}
	if blk.Type() != raw.BlockEventTrailer {
		return fmt.Errorf("%w: block %d is %s, want EVTE", ErrStructural, tpos, blk.Type())
	}
	trailer := blk.AsEventTrailer()

	lvl := f.obsLevel
	if n := hdr.NObservationLevels(); lvl < 1 || lvl > n {
		f.log.Warn("observation level out of range, falling back to 1",
			"requested", lvl, "levels", n)
		lvl = 1
	}
	shift := f.timeShift(hdr, lvl)

	shower := &Shower{
		EventID:          hdr.EventNumber(),
		PrimaryID:        hdr.ParticleID(),
		PrimaryPDG:       f.toPDG(hdr.ParticleID()),
		Energy:           float64(hdr.Energy()),
		Zenith:           float64(hdr.Zenith()),
		Azimuth:          float64(hdr.Azimuth()),
		ZFirst:           float64(hdr.ZFirst()),
		Curved:           hdr.CurvedFlag(),
		ObservationLevel: lvl,
		TimeShift:        shift,
		Photons:          float64(trailer.Photons()),
		Electrons:        float64(trailer.Electrons()),
		Hadrons:          float64(trailer.Hadrons()),
		Muons:            float64(trailer.Muons()),
	}
	for i := 1; i <= hdr.NObservationLevels() && i <= 10; i++ {
		shower.ObservationHeights = append(shower.ObservationHeights,
			float64(hdr.ObservationHeight(i)))
	}

	if err := f.attachProfile(shower); err != nil {
		return err
	}

	it, err := raw.NewParticleIterator(f.stream, hpos+1)
	if err != nil {
		return err
	}
	shower.particles = &Cursor{
		it:         it,
		toPDG:      f.toPDG,
		timeShift:  shift,
		obsLevel:   lvl,
		keepMuProd: f.keepMuProd,
	}

	f.current = shower
	return nil
}

// attachProfile picks the profile source for the current slot: in-stream
// longitudinal blocks first, then the side file, else empty.
func (f *ShowerFile) attachProfile(shower *Shower) error {
	switch {
	case f.slot < len(f.index.LongBlocks):
		cols, err := raw.AssembleLongitudinal(f.stream, f.index.LongBlocks[f.slot])
		if err != nil {
			return err
		}
		if cols.Steps > 0 && cols.Steps != len(cols.Depth) {
			f.log.Warn("longitudinal chain shorter than declared",
				"declared", cols.Steps, "entries", len(cols.Depth))
		}
		shower.Profile = profileFromColumns(cols)
	case f.long != nil && f.slot < f.long.Size():
		p, err := f.long.Profile(f.slot)
		if err != nil {
			f.log.Warn("side-file profile unavailable", "slot", f.slot, "error", err)
			return nil
		}
		shower.Profile = profileFromLongFile(p)
	}
	return nil
}

// pdgPhoton is the PDG code the translator is checked against for the
// curved-geometry photon override.
const pdgPhoton = 22

// timeShift computes the light travel time in ns from the reference
// height to the observation level, using the injected constants and
// translator. The clock starts at the first interaction, or at the top
// of the atmosphere for slant and curved runs (signalled by a negative
// first-interaction height); curved geometry uses the chord through the
// spherical atmosphere, except for photon primaries where the first
// interaction stays the reference.
func (f *ShowerFile) timeShift(hdr raw.EventHeader, lvl int) float64 {
	hObs := float64(hdr.ObservationHeight(lvl))
	hFirst := math.Abs(float64(hdr.ZFirst()))

	hAtm := float64(hdr.StartingHeight())
	if hAtm <= 0 {
		hAtm = f.consts.AtmosphereTop
	}
	hRef := hFirst
	if hdr.ZFirst() < 0 {
		hRef = hAtm
	}

	cosZ := math.Cos(float64(hdr.Zenith()))
	if !hdr.CurvedFlag() {
		return (hRef - hObs) / (cosZ * f.consts.SpeedOfLight)
	}

	if f.toPDG(hdr.ParticleID()) == pdgPhoton {
		hRef = hFirst
	}
	r := f.consts.EarthRadius + hObs
	d := hRef - hObs
	shift := math.Sqrt(r*r*cosZ*cosZ + d*d + 2*r*d)
	shift -= r * cosZ
	return shift / f.consts.SpeedOfLight
}
