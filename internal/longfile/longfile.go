// Package longfile parses the textual .long companion CORSIKA writes next
// to the particle file: per-event particle-number and energy-deposit
// tables, the Gaisser-Hillas fit, and the calorimetric energy.
package longfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrMalformedLong means a numeric parse failed inside a recognised
// section of the file. Unknown lines between sections are skipped, not
// errors.
var ErrMalformedLong = errors.New("malformed .long file")

// GaisserHillas holds the longitudinal fit parameters of one shower.
type GaisserHillas struct {
	NMax float64
	X0   float64
	XMax float64
	A    float64
	B    float64
	C    float64
	Chi2 float64
}

// Profile is one event's longitudinal profile as read from the side file.
type Profile struct {
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

// File is a parsed .long side file. Sections map to events by position:
// the i-th section belongs to the i-th event of the particle file.
type File struct {
	path     string
	slant    bool
	dx       float64
	nBins    int
	profiles []Profile
}

var (
	distHeaderRe    = regexp.MustCompile(`LONGITUDINAL\s+DISTRIBUTION\s+IN\s+(\d+)\s+(VERTICAL|SLANT)`)
	depositHeaderRe = regexp.MustCompile(`LONGITUDINAL\s+ENERGY\s+DEPOSIT\s+IN\s+(\d+)\s+(VERTICAL|SLANT)`)
	stepWidthRe     = regexp.MustCompile(`STEPS\s+OF\s+([0-9.Ee+-]+)\s*G/CM`)
	parametersRe    = regexp.MustCompile(`^\s*PARAMETERS\s*=\s*(.*)$`)
	chi2Re          = regexp.MustCompile(`^\s*CHI\*\*2/DOF\s*=\s*([0-9.Ee+-]+)`)
	calorimetricRe  = regexp.MustCompile(`CALORIMETRIC\s+ENERGY\s*=\s*([0-9.Ee+-]+)\s*GEV`)
)

// Open reads and parses the whole side file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lf := &File{path: path}
	if err := lf.parse(bufio.NewScanner(f)); err != nil {
		return nil, err
	}
	return lf, nil
}

// Size is the number of event sections in the file.
func (f *File) Size() int { return len(f.profiles) }

// Dx is the depth bin width in g/cm², taken from the last section header
// that states one.
func (f *File) Dx() float64 { return f.dx }

// IsSlantDepth reports whether the depth axis is slant rather than
// vertical.
func (f *File) IsSlantDepth() bool { return f.slant }

// HasParticleProfile reports whether any section carried a particle table.
func (f *File) HasParticleProfile() bool {
	for i := range f.profiles {
		if len(f.profiles[i].Depth) > 0 {
			return true
		}
	}
	return false
}

// HasEnergyDeposit reports whether any section carried a deposit table.
func (f *File) HasEnergyDeposit() bool {
	for i := range f.profiles {
		if len(f.profiles[i].DEdX) > 0 {
			return true
		}
	}
	return false
}

// Profile returns the section for the given event slot.
func (f *File) Profile(slot int) (Profile, error) {
	if slot < 0 || slot >= len(f.profiles) {
		return Profile{}, fmt.Errorf("%w: no section for event slot %d", ErrMalformedLong, slot)
	}
	return f.profiles[slot], nil
}

func (f *File) parse(sc *bufio.Scanner) error {
	var cur *Profile
	finish := func() {
		if cur == nil {
			return
		}
		// Integrate the deposit SUM column when the file carries no
		// explicit calorimetric line.
		if cur.CalorimetricEnergy == 0 && len(cur.DEdX) > 0 && f.dx > 0 {
			cur.CalorimetricEnergy = floats.Sum(cur.DEdX) * f.dx
		}
		f.profiles = append(f.profiles, *cur)
		cur = nil
	}

	for sc.Scan() {
		line := sc.Text()

		if m := distHeaderRe.FindStringSubmatch(line); m != nil {
			finish()
			n, _ := strconv.Atoi(m[1])
			f.nBins = n
			f.slant = m[2] == "SLANT"
			if w := stepWidthRe.FindStringSubmatch(line); w != nil {
				if dx, err := strconv.ParseFloat(w[1], 64); err == nil {
					f.dx = dx
				}
			}
			cur = &Profile{SlantDepth: f.slant}
			if err := f.readParticleTable(sc, cur, n); err != nil {
				return err
			}
			continue
		}

		if m := depositHeaderRe.FindStringSubmatch(line); m != nil {
			if cur == nil {
				cur = &Profile{SlantDepth: m[2] == "SLANT"}
			}
			n, _ := strconv.Atoi(m[1])
			if err := f.readDepositTable(sc, cur, n); err != nil {
				return err
			}
			continue
		}

		if cur == nil {
			continue
		}
		if m := parametersRe.FindStringSubmatch(line); m != nil {
			gh, err := parseParameters(m[1])
			if err != nil {
				return err
			}
			gh.Chi2 = cur.GaisserHillas.Chi2
			cur.GaisserHillas = gh
			continue
		}
		if m := chi2Re.FindStringSubmatch(line); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return fmt.Errorf("%w: chi2 %q: %v", ErrMalformedLong, m[1], err)
			}
			cur.GaisserHillas.Chi2 = v
			continue
		}
		if m := calorimetricRe.FindStringSubmatch(strings.ToUpper(line)); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return fmt.Errorf("%w: calorimetric energy %q: %v", ErrMalformedLong, m[1], err)
			}
			cur.CalorimetricEnergy = v
			continue
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	finish()
	return nil
}

// readParticleTable consumes the column-header line plus n data rows of
// (depth, γ, e+, e−, μ+, μ−, hadrons, charged, nuclei, čerenkov).
func (f *File) readParticleTable(sc *bufio.Scanner, p *Profile, n int) error {
	for i := 0; i < n; {
		row, err := nextRow(sc, 10)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: particle table ends after %d of %d rows",
				ErrMalformedLong, i, n)
		}
		p.Depth = append(p.Depth, row[0])
		p.Gamma = append(p.Gamma, row[1])
		p.Electron = append(p.Electron, row[2]+row[3])
		p.Muon = append(p.Muon, row[4]+row[5])
		p.Charged = append(p.Charged, row[7])
		i++
	}
	return nil
}

// readDepositTable consumes n rows of (depth, γ, em ioniz, em cut,
// μ ioniz, μ cut, hadr ioniz, hadr cut, neutrino, sum).
func (f *File) readDepositTable(sc *bufio.Scanner, p *Profile, n int) error {
	for i := 0; i < n; {
		row, err := nextRow(sc, 10)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: deposit table ends after %d of %d rows",
				ErrMalformedLong, i, n)
		}
		p.DepthDE = append(p.DepthDE, row[0])
		p.DEdX = append(p.DEdX, row[9])
		i++
	}
	return nil
}

// nextRow scans forward to the next line with exactly width numeric
// fields, skipping blank and column-header lines. A line with the right
// field count but unparseable numbers is a malformed-file error; nil rows
// mean the scanner ran dry or reached the next section header.
func nextRow(sc *bufio.Scanner, width int) ([]float64, error) {
	for sc.Scan() {
		line := sc.Text()
		if distHeaderRe.MatchString(line) || depositHeaderRe.MatchString(line) {
			// A table must not run into the next section.
			return nil, nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != width {
			// Column-header lines carry text fields; real rows are all
			// numeric and exactly as wide as the table.
			if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
				continue
			}
			return nil, fmt.Errorf("%w: row has %d fields, want %d",
				ErrMalformedLong, len(fields), width)
		}
		row := make([]float64, width)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				if i == 0 {
					// Header line that happens to have the table width.
					row = nil
					break
				}
				return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedLong, field, err)
			}
			row[i] = v
		}
		if row == nil {
			continue
		}
		return row, nil
	}
	return nil, nil
}

func parseParameters(rest string) (GaisserHillas, error) {
	fields := strings.Fields(rest)
	if len(fields) < 6 {
		return GaisserHillas{}, fmt.Errorf("%w: %d fit parameters, want 6",
			ErrMalformedLong, len(fields))
	}
	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return GaisserHillas{}, fmt.Errorf("%w: fit parameter %q: %v",
				ErrMalformedLong, fields[i], err)
		}
		vals[i] = v
	}
	return GaisserHillas{
		NMax: vals[0], X0: vals[1], XMax: vals[2],
		A: vals[3], B: vals[4], C: vals[5],
	}, nil
}
