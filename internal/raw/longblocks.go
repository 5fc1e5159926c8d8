package raw

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// LongColumns are the per-depth-step vectors assembled from an in-stream
// longitudinal chain. DEdX is zero-filled: the in-stream blocks carry
// particle numbers, not energy deposit, and no Gaisser-Hillas fit.
type LongColumns struct {
	Steps    int
	Depth    []float64
	DepthDE  []float64
	DEdX     []float64
	Charged  []float64
	Gamma    []float64
	Electron []float64
	Muon     []float64
}

// AssembleLongitudinal seeks to the chain start, decodes the packed
// steps-and-blocks header word, and gathers entries across the chain's
// consecutive longitudinal blocks. A zero depth past the first entry
// terminates the chain early.
func AssembleLongitudinal(s *Stream, start int64) (LongColumns, error) {
	if err := s.SeekTo(start); err != nil {
		return LongColumns{}, err
	}
	blk, err := s.NextBlock()
	if err != nil {
		return LongColumns{}, fmt.Errorf("longitudinal chain at %d: %w", start, err)
	}
	if blk.Type() != BlockLongitudinal {
		return LongColumns{}, fmt.Errorf("%w: block at %d is %s, want LONG",
			ErrStructural, start, blk.Type())
	}

	long := blk.AsLongitudinal()
	nBlocks := long.StepsAndBlocks() % 100
	steps := long.StepsAndBlocks() / 100
	perBlock := LongEntriesPerBlock(s.shape.Thinning)

	var depth, charged, gamma []float64
	var ePlus, eMinus, muPlus, muMinus []float64

	i := 0
	done := false
	appendEntries := func(l LongitudinalBlock) {
		for j := 0; j < perBlock && !done; j, i = j+1, i+1 {
			e := l.Entry(j)
			if i > 0 && e.Depth == 0 {
				done = true
				return
			}
			depth = append(depth, float64(e.Depth))
			charged = append(charged, float64(e.Charged))
			gamma = append(gamma, float64(e.Gamma))
			ePlus = append(ePlus, float64(e.EPlus))
			eMinus = append(eMinus, float64(e.EMinus))
			muPlus = append(muPlus, float64(e.MuPlus))
			muMinus = append(muMinus, float64(e.MuMinus))
		}
	}

	appendEntries(long)
	for b := 1; b < nBlocks && !done; b++ {
		blk, err := s.NextBlock()
		if err != nil {
			return LongColumns{}, fmt.Errorf("longitudinal chain block %d: %w", b, err)
		}
		if blk.Type() != BlockLongitudinal {
			return LongColumns{}, fmt.Errorf("%w: chain block %d is %s",
				ErrStructural, b, blk.Type())
		}
		appendEntries(blk.AsLongitudinal())
	}

	electron := ePlus
	floats.Add(electron, eMinus)
	muon := muPlus
	floats.Add(muon, muMinus)

	return LongColumns{
		Steps:    steps,
		Depth:    depth,
		DepthDE:  append([]float64(nil), depth...),
		DEdX:     make([]float64, len(depth)),
		Charged:  charged,
		Gamma:    gamma,
		Electron: electron,
		Muon:     muon,
	}, nil
}
