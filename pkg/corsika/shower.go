package corsika

// Shower is the decoded view of the current event: the header and trailer
// scalars, the geometric time shift, the particle cursor, and the
// longitudinal profile.
type Shower struct {
	EventID    int
	PrimaryID  int // CORSIKA particle code
	PrimaryPDG int

	Energy  float64 // GeV
	Zenith  float64 // rad
	Azimuth float64 // rad
	ZFirst  float64 // cm, height of first interaction
	Curved  bool

	ObservationLevel   int // the level the cursor selects, after clamping
	ObservationHeights []float64

	// TimeShift is the light travel time in ns from the reference height
	// to the observation level along the shower axis. Particle times from
	// the cursor already have it subtracted.
	TimeShift float64

	// Trailer particle counts.
	Photons   float64
	Electrons float64
	Hadrons   float64
	Muons     float64

	Profile LongProfile

	particles *Cursor
}

// Particles returns the cursor over the event's ground particles.
func (s *Shower) Particles() *Cursor { return s.particles }
