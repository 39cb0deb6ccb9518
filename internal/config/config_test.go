package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/phasesector/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	masses, err := cfg.Masses()
	if err != nil {
		t.Fatal(err)
	}
	if len(masses) != 26 || masses[0] != 0.5 || masses[25] != 3.0 {
		t.Errorf("unexpected mass grid %v", masses)
	}

	p, err := cfg.Params(1.9, 0.33)
	if err != nil {
		t.Fatal(err)
	}
	if p.Mass != 1.9 || p.KRot != 0.33 || p.Steps() != 6000 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset, got nil")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreIndependent(t *testing.T) {
	a := GetPreset("reference")
	a.Sweep.KRot[0] = 9
	if GetPreset("reference").Sweep.KRot[0] != DefaultKRot {
		t.Error("modifying a preset leaked into the next copy")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")
	data := []byte(`
n_max: 40
sweep:
  k_rot: [0.1, 0.2]
sampling:
  rule: random
  seed: 7
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NMax != 40 || cfg.Sampling.Rule != "random" || cfg.Sampling.Seed != 7 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]float64{0.1, 0.2}, cfg.Sweep.KRot); diff != "" {
		t.Errorf("k_rot mismatch (-want +got):\n%s", diff)
	}
	if cfg.Step != 0.01 || cfg.Sampling.Samples != DefaultSamples || cfg.Sweep.MassStep != DefaultMassStep {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := GetPreset("krot-scan")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PHASESECTOR_SAMPLING_SAMPLES", "128")
	t.Setenv("PHASESECTOR_SWEEP_K_ROT", "0.1,0.3")
	t.Setenv("PHASESECTOR_THRESHOLD_DECAY_RATE", "0.07")
	t.Setenv("PHASESECTOR_BACKGROUND_KIND", "transition")
	t.Setenv("PHASESECTOR_BACKGROUND_WIDTH", "2")

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Sampling.Samples != 128 {
		t.Errorf("expected 128 samples, got %d", cfg.Sampling.Samples)
	}
	if diff := cmp.Diff([]float64{0.1, 0.3}, cfg.Sweep.KRot); diff != "" {
		t.Errorf("k_rot mismatch (-want +got):\n%s", diff)
	}
	if cfg.Thresholds.DecayRate != 0.07 || cfg.Background.Kind != "transition" || cfg.Background.Width != 2 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.NMax != 60 {
		t.Errorf("unset variables must keep defaults, n_max=%f", cfg.NMax)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("PHASESECTOR_STEP", "fast")
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for unparsable step")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown integrator", func(c *Config) { c.Integrator = "euler" }},
		{"unknown rule", func(c *Config) { c.Sampling.Rule = "halton" }},
		{"zero samples", func(c *Config) { c.Sampling.Samples = 0 }},
		{"negative mass", func(c *Config) { c.Sweep.MassFrom = -0.5 }},
		{"empty k_rot", func(c *Config) { c.Sweep.KRot = nil }},
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"negative threshold", func(c *Config) { c.Thresholds.RotationShare = -1 }},
		{"unknown background", func(c *Config) { c.Background.Kind = "matter" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"vanishing mass step", func(c *Config) { c.Sweep.MassStep = 1e-15 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("PHASESECTOR_SAMPLING_SEED", "11")
	cfg, err := Resolve("quick", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sampling.Samples != 16 || cfg.Sampling.Seed != 11 {
		t.Errorf("expected quick preset with env seed, got %+v", cfg.Sampling)
	}

	if _, err := Resolve("nope", ""); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error for unknown preset, got %v", err)
	}
}
