package corsika

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

const sampleLong = ` LONGITUDINAL DISTRIBUTION IN    2 VERTICAL STEPS OF  10. G/CM**2 FOR SHOWER    1
  DEPTH     GAMMAS   POSITRONS   ELECTRONS        MU+         MU-     HADRONS     CHARGED      NUCLEI   CHERENKOV
    10.0  1.000E+02  2.000E+01  3.000E+01  4.000E+00  5.000E+00  6.000E+00  7.000E+01  0.000E+00  0.000E+00
    20.0  2.000E+02  3.000E+01  4.000E+01  5.000E+00  6.000E+00  7.000E+00  8.000E+01  0.000E+00  0.000E+00
 LONGITUDINAL ENERGY DEPOSIT IN    2 VERTICAL STEPS OF  10. G/CM**2 FOR SHOWER    1
  DEPTH      GAMMA   EM IONIZ     EM CUT   MU IONIZ      MU CUT  HADR IONIZ    HADR CUT   NEUTRINO        SUM
     5.0  1.000E+01  2.000E+01  3.000E+00  1.000E+00  5.000E-01  2.000E+00  1.000E+00  0.000E+00  3.750E+01
    15.0  2.000E+01  3.000E+01  4.000E+00  2.000E+00  6.000E-01  3.000E+00  2.000E+00  0.000E+00  6.160E+01
 PARAMETERS         =   2.845E+05 -1.000E+01  2.500E+02  1.000E+00  1.000E-02  1.000E-05
 CHI**2/DOF         =   1.250E+00
 CALORIMETRIC ENERGY =   8.500E+04 GeV
`

// A .long sibling feeds the profile when the stream has no longitudinal
// blocks.
func TestSideFileProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "DAT000001")
	th := raw.Thinned
	writeShowerFile(t, path, raw.Shape{Thinning: th, WordSize: 64}, []testBlock{
		control(th, "RUNH", map[int]float32{2: 1, 5: 1, 6: 1.4e5}),
		standardHeader(th, 1),
		particles(th, []float32{5001}),
		control(th, "EVTE", map[int]float32{2: 1}),
		control(th, "RUNE", map[int]float32{2: 1}),
	})
	if err := os.WriteFile(filepath.Join(dir, "DAT000001.long"), []byte(sampleLong), 0o644); err != nil {
		t.Fatal(err)
	}

	f := openTestFile(t, path)
	info, ok := f.LongFile()
	if !ok {
		t.Fatal("LongFile not detected")
	}
	if info.Sections != 1 || info.Dx != 10 || info.SlantDepth {
		t.Errorf("LongFile info = %+v", info)
	}
	if !info.HasParticleProfile || !info.HasEnergyDeposit {
		t.Errorf("LongFile predicates = %+v", info)
	}

	if err := f.ReadNextEvent(); err != nil {
		t.Fatal(err)
	}
	p := f.CurrentShower().Profile
	if p.Empty() {
		t.Fatal("profile empty with a .long sibling present")
	}
	if len(p.Depth) != 2 || p.Depth[0] != 10 {
		t.Errorf("Depth = %v", p.Depth)
	}
	if p.GaisserHillas.NMax != 2.845e5 || p.GaisserHillas.Chi2 != 1.25 {
		t.Errorf("fit = %+v", p.GaisserHillas)
	}
	if p.CalorimetricEnergy != 8.5e4 {
		t.Errorf("CalorimetricEnergy = %v", p.CalorimetricEnergy)
	}
	if p.DEdX[1] != 61.6 {
		t.Errorf("DEdX = %v", p.DEdX)
	}
}

// A malformed .long file is a warning, not a failed Open.
func TestMalformedSideFileDowngrades(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "DAT000001")
	writeShowerFile(t, path, raw.Shape{Thinning: raw.Thinned, WordSize: 64}, []testBlock{
		control(raw.Thinned, "RUNH", map[int]float32{2: 1}),
		standardHeader(raw.Thinned, 1),
		particles(raw.Thinned, nil),
		control(raw.Thinned, "EVTE", map[int]float32{2: 1}),
		control(raw.Thinned, "RUNE", map[int]float32{2: 1}),
	})
	bad := strings.Replace(sampleLong, "1.000E+02", "garbage", 1)
	if err := os.WriteFile(filepath.Join(dir, "DAT000001.long"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	f := openTestFile(t, path)
	if err := f.ReadNextEvent(); err != nil {
		t.Fatal(err)
	}
	if !f.CurrentShower().Profile.Empty() {
		t.Error("profile not empty after side-file downgrade")
	}
}

func TestGaisserHillasEval(t *testing.T) {
	t.Parallel()
	gh := GaisserHillas{NMax: 1e6, X0: -10, XMax: 700, A: 70}

	// The curve peaks at XMax with value NMax.
	if got := gh.Eval(700); math.Abs(got-1e6) > 1 {
		t.Errorf("Eval(XMax) = %v, want NMax", got)
	}
	if got := gh.Eval(300); got <= 0 || got >= 1e6 {
		t.Errorf("Eval(300) = %v, want in (0, NMax)", got)
	}
	if got := gh.Eval(-20); got != 0 {
		t.Errorf("Eval below X0 = %v, want 0", got)
	}
	if got := (GaisserHillas{}).Eval(500); got != 0 {
		t.Errorf("zero-value fit Eval = %v, want 0", got)
	}
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()
	path := oneEventFile(t, raw.Shape{Thinning: raw.NotThinned, WordSize: 32}, 42, []float32{14001})
	f := openTestFile(t, path)

	s, err := f.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.NEvents != 1 || len(s.Events) != 1 {
		t.Fatalf("summary = %+v", s)
	}
	ev := s.Events[0]
	if ev.ID != 42 || ev.Primary != "proton" || ev.EnergyGeV != 1e6 {
		t.Errorf("event summary = %+v", ev)
	}
	if ev.HasProfile {
		t.Error("HasProfile = true without any profile source")
	}
	if s.Shape != "not-thinned/32" {
		t.Errorf("Shape = %q", s.Shape)
	}

	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var back Summary
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.NEvents != 1 || back.Events[0].ID != 42 {
		t.Errorf("round-tripped summary = %+v", back)
	}
}

// WithoutParticleFile defers the binary open; event access needs Load.
func TestWithoutParticleFile(t *testing.T) {
	t.Parallel()
	path := oneEventFile(t, raw.Shape{Thinning: raw.Thinned, WordSize: 64}, 1, []float32{5001})
	f := openTestFile(t, path, WithoutParticleFile())

	if f.IsValid() {
		t.Error("IsValid = true before Load")
	}
	if _, err := f.NEvents(); err == nil {
		t.Error("NEvents before Load should fail")
	}

	if err := f.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, err := f.NEvents()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("NEvents = %d, want 1", n)
	}
}
