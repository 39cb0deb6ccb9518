package ensemble

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/phasesector/internal/dynamo"
)

func TestGridPhases(t *testing.T) {
	got := NewGrid(7).Phases(4)
	want := []float64{math.Pi / 8, 3 * math.Pi / 8, 5 * math.Pi / 8, 7 * math.Pi / 8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid phases mismatch (-want +got):\n%s", diff)
	}
}

func TestRulesStayInRange(t *testing.T) {
	for _, name := range RuleNames() {
		rule, err := NewPhaseRule(name, 42)
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range rule.Phases(500) {
			if p < 0 || p >= math.Pi {
				t.Errorf("%s: phase %d = %f outside [0, pi)", name, i, p)
			}
		}
		if rule.Seed() != 42 || rule.Name() != name {
			t.Errorf("%s: unexpected identity %s/%d", name, rule.Name(), rule.Seed())
		}
	}
}

func TestSeededRulesAreReproducible(t *testing.T) {
	for _, name := range []string{"random", "stratified"} {
		a, _ := NewPhaseRule(name, 42)
		b, _ := NewPhaseRule(name, 42)
		c, _ := NewPhaseRule(name, 43)

		if diff := cmp.Diff(a.Phases(64), b.Phases(64)); diff != "" {
			t.Errorf("%s: same seed gave different phases:\n%s", name, diff)
		}
		if cmp.Equal(a.Phases(64), c.Phases(64)) {
			t.Errorf("%s: different seeds gave identical phases", name)
		}
	}
}

func TestStratifiedOnePerCell(t *testing.T) {
	const n = 32
	phases := NewStratified(9).Phases(n)
	for i, p := range phases {
		lo := float64(i) * math.Pi / n
		hi := float64(i+1) * math.Pi / n
		if p < lo || p > hi {
			t.Errorf("phase %d = %f outside cell [%f, %f]", i, p, lo, hi)
		}
	}
}

func TestUnknownRule(t *testing.T) {
	if _, err := NewPhaseRule("sobol", 1); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
