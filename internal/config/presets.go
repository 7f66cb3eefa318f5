package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset is a named set of load powers in watts.
type Preset struct {
	Description string     `yaml:"description" json:"description"`
	Y           [3]float64 `yaml:"y" json:"p_y"`
	Delta       [3]float64 `yaml:"delta" json:"p_delta"`
}

var Presets = map[string]Preset{
	"off": {
		Description: "all loads disconnected",
	},
	"balanced": {
		Description: "equal Y load on every phase, no neutral current",
		Y:           [3]float64{1500, 1500, 1500},
	},
	"single_phase": {
		Description: "one Y load on L1, all current returns through N",
		Y:           [3]float64{2000, 0, 0},
	},
	"two_phase": {
		Description: "Y loads on L1 and L2 only",
		Y:           [3]float64{1500, 1500, 0},
	},
	"delta_only": {
		Description: "balanced Delta load, neutral stays at zero",
		Delta:       [3]float64{3000, 3000, 3000},
	},
	"single_delta": {
		Description: "one Delta branch between L1 and L2",
		Delta:       [3]float64{3000, 0, 0},
	},
	"mixed": {
		Description: "unbalanced Y with a partial Delta load",
		Y:           [3]float64{2000, 1000, 500},
		Delta:       [3]float64{1500, 0, 750},
	},
}

func GetPreset(name string) (Preset, error) {
	p, ok := Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return p, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
