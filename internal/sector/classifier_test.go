package sector

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/integrators"
	"github.com/san-kum/phasesector/internal/physics"
	"github.com/san-kum/phasesector/internal/sim"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClassifyPriority(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		name string
		d    Diagnostics
		want Label
	}{
		{"all zero", Diagnostics{}, Unclassified},
		{"share at threshold", Diagnostics{RotationShare: 0.1}, A},
		{"share just below", Diagnostics{RotationShare: 0.0999}, Unclassified},
		{"outbound at threshold", Diagnostics{OutboundFraction: 0.1}, B},
		{"decay at threshold", Diagnostics{DecayRate: 0.05}, C},
		{"A beats B and C", Diagnostics{RotationShare: 0.5, OutboundFraction: 0.5, DecayRate: 1}, A},
		{"B beats C", Diagnostics{RotationShare: 0.05, OutboundFraction: 0.4, DecayRate: 1}, B},
		{"C only", Diagnostics{RotationShare: 0.01, OutboundFraction: 0.02, DecayRate: 0.3}, C},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.d); got != tt.want {
				t.Errorf("Classify(%+v) = %s, want %s", tt.d, got, tt.want)
			}
		})
	}
}

// outboundWindow has constant free energy, no rotation component, and
// exactly one sample moving away from the vacuum.
func outboundWindow(size int) []sim.Sample {
	w := make([]sim.Sample, size)
	for i := range w {
		vel := -0.5
		if i == 3 {
			vel = 0.5
		}
		w[i] = sim.Sample{N: 48 + 0.1*float64(i), State: dynamo.State{1, vel, 0, 0}}
	}
	return w
}

func TestClassifyWindowAtThreshold(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		name string
		size int
		want Label
	}{
		{"outbound fraction equals threshold", 10, B},
		{"outbound fraction below threshold", 11, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, d, err := c.ClassifyWindow(outboundWindow(tt.size), 1)
			if err != nil {
				t.Fatal(err)
			}
			if d.RotationShare != 0 || d.DecayRate != 0 {
				t.Errorf("expected zero rotation share and decay, got %+v", d)
			}
			if want := 1 / float64(tt.size); d.OutboundFraction != want {
				t.Errorf("outbound fraction = %v, want %v", d.OutboundFraction, want)
			}
			if label != tt.want {
				t.Errorf("ClassifyWindow = %s, want %s", label, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := defaultClassifier(t)
	d := Diagnostics{RotationShare: 0.08, OutboundFraction: 0.3, DecayRate: 0.5}
	first := c.Classify(d)
	for i := 0; i < 100; i++ {
		if got := c.Classify(d); got != first {
			t.Fatalf("classification changed on call %d: %s != %s", i, got, first)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	rules := defaultClassifier(t).Rules()
	want := []Label{A, B, C}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, r := range rules {
		if r.Sector != want[i] {
			t.Errorf("rule %d: expected %s, got %s", i, want[i], r.Sector)
		}
	}
	rules[0].Threshold = 99
	if defaultClassifier(t).Rules()[0].Threshold == 99 {
		t.Error("Rules must return a copy")
	}
}

func TestInvalidThresholds(t *testing.T) {
	for _, th := range []Thresholds{
		{RotationShare: -0.1, OutboundFraction: 0.1, DecayRate: 0.05},
		{RotationShare: 0.1, OutboundFraction: math.NaN(), DecayRate: 0.05},
	} {
		if _, err := NewClassifier(th); !errors.Is(err, dynamo.ErrConfiguration) {
			t.Errorf("expected configuration error for %+v, got %v", th, err)
		}
	}
}

func TestShortWindowIsAmbiguous(t *testing.T) {
	c := defaultClassifier(t)
	window := []sim.Sample{
		{N: 0, State: dynamo.State{1, 0, 0, 0}},
		{N: 1, State: dynamo.State{1, 0, 0, 0}},
	}
	label, _, err := c.ClassifyWindow(window, 1)
	if !errors.Is(err, ErrAmbiguousWindow) {
		t.Fatalf("expected ErrAmbiguousWindow, got %v", err)
	}
	if label != Unclassified {
		t.Errorf("expected Unclassified, got %s", label)
	}
}

func TestZeroEnergyIsAmbiguous(t *testing.T) {
	c := defaultClassifier(t)
	window := make([]sim.Sample, 10)
	for i := range window {
		window[i] = sim.Sample{N: float64(i), State: dynamo.State{0, 0, 0, 0}}
	}
	label, d, err := c.ClassifyWindow(window, 1)
	if !errors.Is(err, ErrAmbiguousWindow) || label != Unclassified {
		t.Fatalf("expected ambiguous Unclassified, got %s, %v", label, err)
	}
	if d != (Diagnostics{}) {
		t.Errorf("expected zero diagnostics, got %+v", d)
	}
}

func TestClassifyRun(t *testing.T) {
	c := defaultClassifier(t)

	div := c.ClassifyRun(&sim.Result{Divergent: true, Err: dynamo.ErrDivergence}, 1)
	if div.Label != Unclassified || !div.Divergent || div.Ambiguous {
		t.Errorf("expected divergent Unclassified verdict, got %+v", div)
	}

	short := c.ClassifyRun(&sim.Result{WindowComplete: false}, 1)
	if short.Label != Unclassified || !short.Ambiguous || !errors.Is(short.Err, ErrAmbiguousWindow) {
		t.Errorf("expected ambiguous verdict for incomplete window, got %+v", short)
	}
}

// The reference model: strong rotation at light mass lands in A whatever the
// phase, a phase near the rotation attractor at heavy mass does not.
func TestReferenceTrajectories(t *testing.T) {
	c := defaultClassifier(t)
	gen, err := sim.New(func() dynamo.Integrator { return integrators.NewRK4() })
	if err != nil {
		t.Fatal(err)
	}

	run := func(mass, phi0 float64) Verdict {
		p := physics.DefaultParams()
		p.Mass = mass
		p.KRot = 0.33
		res, err := gen.Run(context.Background(), sim.InitialCondition{Phi0: phi0}, p)
		if err != nil {
			t.Fatal(err)
		}
		return c.ClassifyRun(res, mass)
	}

	if v := run(0.5, math.Pi/2); v.Label != A {
		t.Errorf("expected A at m=0.5, got %s (%+v)", v.Label, v.Diagnostics)
	}
	if v := run(3.0, 3.0); v.Label == A {
		t.Errorf("expected free-dominated sector at m=3.0 phi0=3.0, got A (%+v)", v.Diagnostics)
	}
}

func TestLabelText(t *testing.T) {
	for _, l := range Labels() {
		b, err := l.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Label
		if err := back.UnmarshalText(b); err != nil || back != l {
			t.Errorf("round trip of %s gave %s, %v", l, back, err)
		}
	}
	if l, err := Parse("u"); err != nil || l != Unclassified {
		t.Errorf("expected U to parse as Unclassified, got %s, %v", l, err)
	}
	if _, err := Parse("D"); err == nil {
		t.Error("expected error for unknown label")
	}
	if Unclassified.Short() != "U" || A.Short() != "A" {
		t.Error("unexpected short codes")
	}
}
