// Package particle translates CORSIKA particle codes into PDG codes. The
// elementary entries live in an embedded table; nuclei follow the CORSIKA
// A*100+Z convention and map onto the PDG 10LZZZAAAI scheme.
package particle

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed table.yaml
var tableYAML []byte

// PDG codes the reader refers to by name.
const (
	PDGPhoton   = 22
	PDGElectron = 11
	PDGMuon     = 13
	PDGProton   = 2212
	Undefined   = 0
)

// Muon-production records carry these CORSIKA codes. They describe the
// production point of a muon reaching ground, not an extra particle.
const (
	MuPlusProductionInfo  = 75
	MuMinusProductionInfo = 76
)

type entry struct {
	Corsika int    `yaml:"corsika"`
	PDG     int    `yaml:"pdg"`
	Name    string `yaml:"name"`
}

type table struct {
	Particles []entry `yaml:"particles"`
}

var loadOnce = sync.OnceValues(func() (map[int]entry, error) {
	var t table
	if err := yaml.Unmarshal(tableYAML, &t); err != nil {
		return nil, fmt.Errorf("particle table: %w", err)
	}
	m := make(map[int]entry, len(t.Particles))
	for _, e := range t.Particles {
		m[e.Corsika] = e
	}
	return m, nil
})

// CorsikaToPDG maps a CORSIKA particle code to its PDG code. Nuclei
// (100..9999) are converted by the A*100+Z rule. Unknown codes return
// Undefined.
func CorsikaToPDG(code int) int {
	if code >= 100 && code < 10000 {
		a := code / 100
		z := code % 100
		return 1000000000 + z*10000 + a*10
	}
	m, err := loadOnce()
	if err != nil {
		panic(err)
	}
	if e, ok := m[code]; ok {
		return e.PDG
	}
	return Undefined
}

// Name returns a human-readable label for a CORSIKA particle code, or
// "corsika(<code>)" when the code is not in the table.
func Name(code int) string {
	if code >= 100 && code < 10000 {
		return fmt.Sprintf("nucleus(A=%d,Z=%d)", code/100, code%100)
	}
	m, err := loadOnce()
	if err != nil {
		panic(err)
	}
	if e, ok := m[code]; ok {
		return e.Name
	}
	return fmt.Sprintf("corsika(%d)", code)
}
