package corsika

import (
	"math"

	"github.com/IceCube-SPNO/corsika-reader/internal/longfile"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

// GaisserHillas holds the parameters of the standard longitudinal shower
// parameterisation, as fitted by CORSIKA and reported in the .long file.
type GaisserHillas struct {
	NMax float64
	X0   float64
	XMax float64
	A    float64
	B    float64
	C    float64
	Chi2 float64
}

// Eval computes the Gaisser-Hillas particle number at atmospheric depth x
// in g/cm², with the depth-dependent attenuation λ(x) = a + b·x + c·x².
func (g GaisserHillas) Eval(x float64) float64 {
	if g.NMax == 0 || g.XMax <= g.X0 || x <= g.X0 {
		return 0
	}
	lambda := g.A + g.B*x + g.C*x*x
	if lambda <= 0 {
		return 0
	}
	exponent := (g.XMax - g.X0) / lambda
	return g.NMax * math.Pow((x-g.X0)/(g.XMax-g.X0), exponent) *
		math.Exp((g.XMax-x)/lambda)
}

// LongProfile is an event's longitudinal development: particle numbers
// and energy deposit per depth step. Profiles from in-stream blocks have
// zero-filled DEdX and no fit; events without any profile source leave
// every slice empty.
type LongProfile struct {
	// SlantDepth reports whether Depth is measured along the shower axis
	// rather than the local vertical.
	SlantDepth bool

	Depth    []float64
	Charged  []float64
	Gamma    []float64
	Electron []float64
	Muon     []float64

	DepthDE []float64
	DEdX    []float64

	GaisserHillas      GaisserHillas
	CalorimetricEnergy float64
}

// Empty reports whether the event carried no profile at all.
func (p LongProfile) Empty() bool { return len(p.Depth) == 0 && len(p.DEdX) == 0 }

func profileFromColumns(c raw.LongColumns) LongProfile {
	return LongProfile{
		Depth:    c.Depth,
		Charged:  c.Charged,
		Gamma:    c.Gamma,
		Electron: c.Electron,
		Muon:     c.Muon,
		DepthDE:  c.DepthDE,
		DEdX:     c.DEdX,
	}
}

func profileFromLongFile(p longfile.Profile) LongProfile {
	return LongProfile{
		SlantDepth:         p.SlantDepth,
		Depth:              p.Depth,
		Charged:            p.Charged,
		Gamma:              p.Gamma,
		Electron:           p.Electron,
		Muon:               p.Muon,
		DepthDE:            p.DepthDE,
		DEdX:               p.DEdX,
		GaisserHillas:      GaisserHillas(p.GaisserHillas),
		CalorimetricEnergy: p.CalorimetricEnergy,
	}
}
