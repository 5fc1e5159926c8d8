package corsika

import (
	"github.com/IceCube-SPNO/corsika-reader/internal/particle"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

// Particle is one ground particle of the current shower, with its arrival
// time corrected to the shower-front reference and its id translated to
// PDG. Momenta are in GeV/c, positions in cm, time in ns. Weight is 1 for
// not-thinned files.
type Particle struct {
	CorsikaID          int
	PDG                int
	ObservationLevel   int
	HadronicGeneration int

	Px, Py, Pz float64
	X, Y       float64
	T          float64
	Weight     float64
}

// Name is the human-readable label of the particle species.
func (p Particle) Name() string { return particle.Name(p.CorsikaID) }

// Cursor iterates the particles of one event. It borrows the reader's
// block stream: advancing the reader (or another cursor) invalidates it
// until Rewind. Next returns io.EOF at the end of the event's particle
// region and ErrIteratorExhausted afterwards.
type Cursor struct {
	it         *raw.ParticleIterator
	toPDG      ParticleTranslator
	timeShift  float64
	obsLevel   int
	keepMuProd bool
}

// Rewind repositions the cursor at the event's first particle.
func (c *Cursor) Rewind() error { return c.it.Rewind() }

// Next returns the next particle on the selected observation level.
// Muon-production records (CORSIKA ids 75/76) are dropped unless the
// reader was opened with WithMuonProductionInfo.
func (c *Cursor) Next() (Particle, error) {
	for {
		rec, err := c.it.Next()
		if err != nil {
			return Particle{}, err
		}
		id := rec.ID()
		if id == particle.MuPlusProductionInfo || id == particle.MuMinusProductionInfo {
			if !c.keepMuProd {
				continue
			}
		} else if rec.ObservationLevel() != c.obsLevel {
			continue
		}
		return Particle{
			CorsikaID:          id,
			PDG:                c.toPDG(id),
			ObservationLevel:   rec.ObservationLevel(),
			HadronicGeneration: rec.HadronicGeneration(),
			Px:                 float64(rec.Px),
			Py:                 float64(rec.Py),
			Pz:                 float64(rec.Pz),
			X:                  float64(rec.X),
			Y:                  float64(rec.Y),
			T:                  float64(rec.T) - c.timeShift,
			Weight:             float64(rec.Weight),
		}, nil
	}
}
