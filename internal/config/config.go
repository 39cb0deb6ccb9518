package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/ensemble"
	"github.com/san-kum/phasesector/internal/integrators"
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sector"
	"github.com/san-kum/phasesector/internal/sim"
)

// EnvPrefix prefixes every environment override, e.g. PHASESECTOR_SWEEP_K_ROT.
const EnvPrefix = "PHASESECTOR_"

const (
	DefaultMassFrom   = 0.5
	DefaultMassTo     = 3.0
	DefaultMassStep   = 0.1
	DefaultKRot       = 0.33
	DefaultSamples    = 64
	DefaultSeed       = 42
	DefaultTraceEvery = 10
	DefaultTraceMax   = 600
)

type Config struct {
	Integrator        string            `yaml:"integrator" json:"integrator" env:"INTEGRATOR"`
	Step              float64           `yaml:"step" json:"step" env:"STEP"`
	NMax              float64           `yaml:"n_max" json:"n_max" env:"N_MAX"`
	Window            float64           `yaml:"window" json:"window" env:"WINDOW"`
	Workers           int               `yaml:"workers" json:"workers" env:"WORKERS"`
	SweepWorkers      int               `yaml:"sweep_workers" json:"sweep_workers" env:"SWEEP_WORKERS"`
	MonotoneTolerance float64           `yaml:"monotone_tolerance" json:"monotone_tolerance" env:"MONOTONE_TOLERANCE"`
	Source            SourceConfig      `yaml:"source" json:"source" envPrefix:"SOURCE_"`
	Background        BackgroundConfig  `yaml:"background" json:"background" envPrefix:"BACKGROUND_"`
	Sweep             SweepConfig       `yaml:"sweep" json:"sweep" envPrefix:"SWEEP_"`
	Sampling          SamplingConfig    `yaml:"sampling" json:"sampling" envPrefix:"SAMPLING_"`
	Thresholds        sector.Thresholds `yaml:"thresholds" json:"thresholds" envPrefix:"THRESHOLD_"`
	Traces            TraceConfig       `yaml:"traces" json:"traces" envPrefix:"TRACE_"`
}

type SourceConfig struct {
	Amplitude float64 `yaml:"amplitude" json:"amplitude" env:"AMPLITUDE"`
	Decay     float64 `yaml:"decay" json:"decay" env:"DECAY"`
}

type BackgroundConfig struct {
	Kind    string  `yaml:"kind" json:"kind" env:"KIND"`
	Epsilon float64 `yaml:"epsilon" json:"epsilon" env:"EPSILON"`
	Width   float64 `yaml:"width" json:"width,omitempty" env:"WIDTH"`
}

type SweepConfig struct {
	MassFrom float64   `yaml:"mass_from" json:"mass_from" env:"MASS_FROM"`
	MassTo   float64   `yaml:"mass_to" json:"mass_to" env:"MASS_TO"`
	MassStep float64   `yaml:"mass_step" json:"mass_step" env:"MASS_STEP"`
	KRot     []float64 `yaml:"k_rot" json:"k_rot" env:"K_ROT"`
}

type SamplingConfig struct {
	Rule    string `yaml:"rule" json:"rule" env:"RULE"`
	Samples int    `yaml:"samples" json:"samples" env:"SAMPLES"`
	Seed    uint64 `yaml:"seed" json:"seed" env:"SEED"`
}

// TraceConfig selects the representative phase portraits: Phases evenly
// spaced initial phases at each of Masses, for every k_rot.
type TraceConfig struct {
	Masses    []float64 `yaml:"masses" json:"masses" env:"MASSES"`
	Phases    int       `yaml:"phases" json:"phases" env:"PHASES"`
	Every     int       `yaml:"every" json:"every" env:"EVERY"`
	MaxPoints int       `yaml:"max_points" json:"max_points" env:"MAX_POINTS"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: integrators.Default,
		Step:       physics.DefaultStep,
		NMax:       physics.DefaultNMax,
		Window:     sim.DefaultWindow,
		Source: SourceConfig{
			Amplitude: physics.DefaultSourceAmplitude,
			Decay:     physics.DefaultSourceDecay,
		},
		Background: BackgroundConfig{
			Kind:    "radiation",
			Epsilon: physics.DefaultRadiationEpsilon,
		},
		Sweep: SweepConfig{
			MassFrom: DefaultMassFrom,
			MassTo:   DefaultMassTo,
			MassStep: DefaultMassStep,
			KRot:     []float64{DefaultKRot},
		},
		Sampling: SamplingConfig{
			Rule:    "grid",
			Samples: DefaultSamples,
			Seed:    DefaultSeed,
		},
		Thresholds: sector.DefaultThresholds(),
		Traces: TraceConfig{
			Masses:    []float64{1.0, 2.0, 3.0},
			Phases:    3,
			Every:     DefaultTraceEvery,
			MaxPoints: DefaultTraceMax,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Sweep.KRot = append([]float64(nil), c.Sweep.KRot...)
	out.Traces.Masses = append([]float64(nil), c.Traces.Masses...)
	return &out
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads a YAML file over base. Keys absent from the file keep the
// base values.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PHASESECTOR_* environment variables. Unset
// variables leave the field untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve layers preset (or defaults), the optional file, and the
// environment, then validates.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		cfg = GetPreset(preset)
		if cfg == nil {
			return nil, dynamo.Invalid("preset", preset, fmt.Sprintf("unknown preset (available: %v)", ListPresets()))
		}
	}
	if path != "" {
		var err error
		if cfg, err = LoadOver(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once. The result matches
// dynamo.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	_, err := integrators.Factory(c.Integrator)
	add(err)
	_, err = ensemble.NewPhaseRule(c.Sampling.Rule, c.Sampling.Seed)
	add(err)
	_, err = physics.NewBackground(c.Background.Kind, c.Background.Epsilon, c.Background.Width)
	add(err)
	add(c.Thresholds.Validate())

	masses, err := c.Masses()
	add(err)
	if len(c.Sweep.KRot) == 0 {
		add(dynamo.Invalid("sweep.k_rot", c.Sweep.KRot, "must list at least one value"))
	}
	if c.Sampling.Samples <= 0 {
		add(dynamo.Invalid("sampling.samples", c.Sampling.Samples, "must be positive"))
	}
	if c.Workers < 0 {
		add(dynamo.Invalid("workers", c.Workers, "must be non-negative"))
	}
	if c.SweepWorkers < 0 {
		add(dynamo.Invalid("sweep_workers", c.SweepWorkers, "must be non-negative"))
	}
	if !(c.Window > 0) {
		add(dynamo.Invalid("window", c.Window, "must be positive"))
	}
	if c.MonotoneTolerance < 0 {
		add(dynamo.Invalid("monotone_tolerance", c.MonotoneTolerance, "must be non-negative"))
	}
	if c.Traces.Phases < 0 || c.Traces.Every < 0 || c.Traces.MaxPoints < 0 {
		add(dynamo.Invalid("traces", c.Traces, "counts must be non-negative"))
	}

	if len(errs) == 0 && len(masses) > 0 {
		for _, k := range c.Sweep.KRot {
			if _, err := c.Params(masses[0], k); err != nil {
				add(err)
				break
			}
		}
	}

	return errors.Join(errs...)
}

// Masses expands the configured mass grid.
func (c *Config) Masses() ([]float64, error) {
	masses, err := critical.Range(c.Sweep.MassFrom, c.Sweep.MassTo, c.Sweep.MassStep)
	if err != nil {
		return nil, err
	}
	if masses[0] < 0 {
		return nil, dynamo.Invalid("sweep.mass_from", c.Sweep.MassFrom, "must be non-negative")
	}
	return masses, nil
}

// BaseParams is the field parameter set without mass and k_rot.
func (c *Config) BaseParams() (physics.Params, error) {
	bg, err := physics.NewBackground(c.Background.Kind, c.Background.Epsilon, c.Background.Width)
	if err != nil {
		return physics.Params{}, err
	}
	p := physics.DefaultParams()
	p.NMax = c.NMax
	p.Step = c.Step
	p.SourceDecay = c.Source.Decay
	p.SourceAmplitude = c.Source.Amplitude
	p.Background = bg
	return p, nil
}

// Params is the validated parameter set of one sweep point.
func (c *Config) Params(mass, kRot float64) (physics.Params, error) {
	p, err := c.BaseParams()
	if err != nil {
		return p, err
	}
	p.Mass = mass
	p.KRot = kRot
	return p, p.Validate()
}

func (c *Config) PhaseRule() (ensemble.PhaseRule, error) {
	return ensemble.NewPhaseRule(c.Sampling.Rule, c.Sampling.Seed)
}
