package experiment

import (
	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/integrators"
	"github.com/san-kum/phasesector/internal/physics"
)

// Registry lists the named components a study configuration can select.
type Registry struct {
	Integrators []string
	PhaseRules  []string
	Backgrounds []string
	Presets     []string
}

func NewRegistry() *Registry {
	return &Registry{
		Integrators: integrators.Names(),
		PhaseRules:  ensemble.RuleNames(),
		Backgrounds: physics.BackgroundKinds(),
		Presets:     config.ListPresets(),
	}
}

type Section struct {
	Title string
	Names []string
}

func (r *Registry) Sections() []Section {
	return []Section{
		{"integrators", r.Integrators},
		{"phase rules", r.PhaseRules},
		{"backgrounds", r.Backgrounds},
		{"presets", r.Presets},
	}
}
