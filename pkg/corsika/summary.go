package corsika

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/IceCube-SPNO/corsika-reader/internal/particle"
	"github.com/IceCube-SPNO/corsika-reader/internal/raw"
)

// EventSummary is the digest of one indexed event.
type EventSummary struct {
	ID         int     `json:"id"`
	PrimaryID  int     `json:"primary_id"`
	Primary    string  `json:"primary"`
	EnergyGeV  float64 `json:"energy_gev"`
	ZenithRad  float64 `json:"zenith_rad"`
	HasProfile bool    `json:"has_profile"`
}

// Summary is a JSON-marshallable digest of the whole file.
type Summary struct {
	Path    string         `json:"path"`
	Shape   string         `json:"shape"`
	NEvents int            `json:"n_events"`
	Events  []EventSummary `json:"events"`
}

// WriteJSON encodes the summary, indented.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Summary scans the file and reads every event header. It repositions
// the stream, so any live particle cursor needs a Rewind afterwards.
func (f *ShowerFile) Summary() (Summary, error) {
	if err := f.scan(); err != nil {
		return Summary{}, err
	}
	s := Summary{
		Path:    f.path,
		Shape:   f.stream.Shape().String(),
		NEvents: f.index.NEvents(),
	}
	for slot, hpos := range f.index.EventHeaders {
		if err := f.stream.SeekTo(hpos); err != nil {
			return Summary{}, err
		}
		blk, err := f.stream.NextBlock()
		if err != nil {
			return Summary{}, fmt.Errorf("event header at block %d: %w", hpos, err)
		}
		if blk.Type() != raw.BlockEventHeader {
			return Summary{}, fmt.Errorf("%w: block %d is %s, want EVTH",
				ErrStructural, hpos, blk.Type())
		}
		hdr := blk.AsEventHeader()
		s.Events = append(s.Events, EventSummary{
			ID:        hdr.EventNumber(),
			PrimaryID: hdr.ParticleID(),
			Primary:   particle.Name(hdr.ParticleID()),
			EnergyGeV: float64(hdr.Energy()),
			ZenithRad: float64(hdr.Zenith()),
			HasProfile: slot < len(f.index.LongBlocks) ||
				(f.long != nil && slot < f.long.Size()),
		})
	}
	return s, nil
}
