package config

import "sort"

type Preset struct {
	Description     string
	InitialPosition float64
	InitialVelocity float64
	NominalDt       float64
	MaxDisplacement float64
	Duration        float64
}

var Presets = map[string]Preset{
	"reference": {
		Description:     "one period from rest at x=0.1",
		InitialPosition: 0.1, InitialVelocity: 0.0, NominalDt: 0.01, MaxDisplacement: 0.02, Duration: 1.0,
	},
	"long": {
		Description:     "ten periods from rest at x=0.1",
		InitialPosition: 0.1, InitialVelocity: 0.0, NominalDt: 0.01, MaxDisplacement: 0.02, Duration: 10.0,
	},
	"fast": {
		Description:     "large kick, most steps refined",
		InitialPosition: 1.0, InitialVelocity: 5.0, NominalDt: 0.01, MaxDisplacement: 0.02, Duration: 2.0,
	},
	"fine": {
		Description:     "small nominal step for energy checks",
		InitialPosition: 0.1, InitialVelocity: 0.0, NominalDt: 1e-5, MaxDisplacement: 0.02, Duration: 1.0,
	},
	"rest": {
		Description:     "equilibrium, nothing moves",
		InitialPosition: 0.0, InitialVelocity: 0.0, NominalDt: 0.01, MaxDisplacement: 0.02, Duration: 1.0,
	},
}

// GetPreset returns the default config with the named preset applied, or
// nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func (p Preset) Apply(cfg *Config) {
	cfg.InitialPosition = p.InitialPosition
	cfg.InitialVelocity = p.InitialVelocity
	cfg.NominalDt = p.NominalDt
	cfg.MaxDisplacement = p.MaxDisplacement
	cfg.Duration = p.Duration
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
