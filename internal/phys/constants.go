// Package phys holds the physical constants the reader needs to convert
// CORSIKA header geometry into particle arrival-time corrections. Lengths
// are in centimetres and times in nanoseconds, matching the CORSIKA output
// units.
package phys

const (
	// EarthRadius is the mean Earth radius in cm, as used by CORSIKA's
	// CURVED option.
	EarthRadius = 6.371315e8

	// SpeedOfLight in cm/ns.
	SpeedOfLight = 29.9792458

	// AtmosphereTop is the default altitude of the upper edge of the
	// atmosphere in cm. It applies when the event header carries no
	// explicit starting height.
	AtmosphereTop = 112.8292e5
)
