package instruments

import (
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed instruments.yaml
var catalogYAML []byte

// Instrument is a General MIDI program offered by the instrument selector
type Instrument struct {
	Num     int    `yaml:"num"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// ID is the identifier broadcast when the instrument is chosen
func (i Instrument) ID() string {
	return strconv.Itoa(i.Num)
}

var catalog []Instrument

func init() {
	list, err := Parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("instruments: embedded catalog: %v", err))
	}
	catalog = list
}

// Parse decodes a YAML instrument list
func Parse(data []byte) ([]Instrument, error) {
	var list []Instrument
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse instruments: %w", err)
	}
	seen := make(map[int]bool, len(list))
	for _, inst := range list {
		if inst.Num < 0 || inst.Num > 127 {
			return nil, fmt.Errorf("instrument %q: program %d out of range", inst.Name, inst.Num)
		}
		if seen[inst.Num] {
			return nil, fmt.Errorf("instrument %q: duplicate program %d", inst.Name, inst.Num)
		}
		seen[inst.Num] = true
	}
	return list, nil
}

// All returns the full catalog
func All() []Instrument {
	return append([]Instrument(nil), catalog...)
}

// Enabled returns the instruments shown in the selector, in catalog order
func Enabled() []Instrument {
	var out []Instrument
	for _, inst := range catalog {
		if inst.Enabled {
			out = append(out, inst)
		}
	}
	return out
}
