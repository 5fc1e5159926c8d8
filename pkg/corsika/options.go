package corsika

import (
	"github.com/IceCube-SPNO/corsika-reader/internal/logger"
	"github.com/IceCube-SPNO/corsika-reader/internal/particle"
	"github.com/IceCube-SPNO/corsika-reader/internal/phys"
)

// ParticleTranslator maps a CORSIKA particle code to a PDG code. The
// reader consumes this as a collaborator; callers with their own particle
// list inject it via WithParticleTranslator.
type ParticleTranslator func(corsikaID int) int

// Constants are the physical constants the geometry correction consumes.
// Lengths are in cm, the speed of light in cm/ns.
type Constants struct {
	EarthRadius   float64
	SpeedOfLight  float64
	AtmosphereTop float64
}

// DefaultConstants returns the values CORSIKA itself uses.
func DefaultConstants() Constants {
	return Constants{
		EarthRadius:   phys.EarthRadius,
		SpeedOfLight:  phys.SpeedOfLight,
		AtmosphereTop: phys.AtmosphereTop,
	}
}

// DefaultParticleTranslator returns the built-in CORSIKA→PDG table.
func DefaultParticleTranslator() ParticleTranslator {
	return particle.CorsikaToPDG
}

// Option configures a ShowerFile at Open time.
type Option func(*ShowerFile)

// WithLogger injects the structured logging sink. The default logs to
// stderr at info level.
func WithLogger(log logger.Logger) Option {
	return func(f *ShowerFile) { f.log = log }
}

// WithObservationLevel selects the observation level the particle cursor
// emits, 1-based. Levels outside the event's range fall back to 1 with a
// warning.
func WithObservationLevel(level int) Option {
	return func(f *ShowerFile) { f.obsLevel = level }
}

// WithMuonProductionInfo keeps the muon-production records (CORSIKA ids
// 75/76) in the particle stream instead of dropping them.
func WithMuonProductionInfo() Option {
	return func(f *ShowerFile) { f.keepMuProd = true }
}

// WithParticleTranslator replaces the built-in CORSIKA→PDG translation.
func WithParticleTranslator(fn ParticleTranslator) Option {
	return func(f *ShowerFile) { f.toPDG = fn }
}

// WithConstants replaces the physical constants used by the time-shift
// geometry.
func WithConstants(c Constants) Option {
	return func(f *ShowerFile) { f.consts = c }
}

// WithoutParticleFile defers opening the binary particle file: only the
// .long companion is located and parsed. Call Load before any event
// access.
func WithoutParticleFile() Option {
	return func(f *ShowerFile) { f.requireParticleFile = false }
}
