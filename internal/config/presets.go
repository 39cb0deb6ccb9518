package config

import "sort"

// Presets build named study configurations from the defaults.
var Presets = map[string]func() *Config{
	// the calibrated single-coupling study
	"reference": DefaultConfig,
	"krot-scan": func() *Config {
		c := DefaultConfig()
		c.Sweep.KRot = []float64{0, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5}
		c.Sampling.Rule = "stratified"
		return c
	},
	"quick": func() *Config {
		c := DefaultConfig()
		c.Sweep.MassFrom = 1.0
		c.Sweep.MassStep = 0.25
		c.Sampling.Samples = 16
		c.Traces.Masses = []float64{2.0}
		c.Traces.Phases = 2
		return c
	},
	"transition": func() *Config {
		c := DefaultConfig()
		c.Background.Kind = "transition"
		c.Background.Width = 1.0
		return c
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
