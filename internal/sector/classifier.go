package sector

import (
	"fmt"
	"math"

	"github.com/san-kum/phasesector/internal/dynamo"
	"github.com/san-kum/phasesector/internal/sim"
)

// Thresholds are inclusive lower bounds on the diagnostics.
type Thresholds struct {
	RotationShare    float64 `yaml:"rotation_share" json:"rotation_share" env:"ROTATION_SHARE"`
	OutboundFraction float64 `yaml:"outbound_fraction" json:"outbound_fraction" env:"OUTBOUND_FRACTION"`
	DecayRate        float64 `yaml:"decay_rate" json:"decay_rate" env:"DECAY_RATE"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{RotationShare: 0.1, OutboundFraction: 0.1, DecayRate: 0.05}
}

func (t Thresholds) Validate() error {
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"thresholds.rotation_share", t.RotationShare},
		{"thresholds.outbound_fraction", t.OutboundFraction},
		{"thresholds.decay_rate", t.DecayRate},
	} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return dynamo.Invalid(c.field, c.v, "must be finite and non-negative")
		}
	}
	return nil
}

// Rule assigns Sector when the diagnostic On reaches Threshold.
type Rule struct {
	Sector    Label
	On        Diagnostic
	Threshold float64
}

func (r Rule) Matches(d Diagnostics) bool {
	return d.Get(r.On) >= r.Threshold
}

func (r Rule) String() string {
	return fmt.Sprintf("%s if %s >= %g", r.Sector, r.On, r.Threshold)
}

// Classifier applies the rules in priority order; the first match wins.
type Classifier struct {
	rules []Rule
}

func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{rules: []Rule{
		{Sector: A, On: RotationShare, Threshold: t.RotationShare},
		{Sector: B, On: OutboundFraction, Threshold: t.OutboundFraction},
		{Sector: C, On: DecayRate, Threshold: t.DecayRate},
	}}, nil
}

func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Classifier) Classify(d Diagnostics) Label {
	for _, r := range c.rules {
		if r.Matches(d) {
			return r.Sector
		}
	}
	return Unclassified
}

// ClassifyWindow measures and classifies a window. On ErrAmbiguousWindow the
// label is Unclassified and the diagnostics are zero.
func (c *Classifier) ClassifyWindow(window []sim.Sample, mass float64) (Label, Diagnostics, error) {
	d, err := Measure(window, mass)
	if err != nil {
		return Unclassified, Diagnostics{}, err
	}
	return c.Classify(d), d, nil
}

// Verdict is the classification of one generated trajectory.
type Verdict struct {
	Label       Label       `json:"label"`
	Diagnostics Diagnostics `json:"diagnostics"`
	Divergent   bool        `json:"divergent,omitempty"`
	Ambiguous   bool        `json:"ambiguous,omitempty"`
	Err         error       `json:"-"`
}

// ClassifyRun classifies a generator result. Divergent runs and incomplete
// windows are Unclassified with the cause in Err.
func (c *Classifier) ClassifyRun(res *sim.Result, mass float64) Verdict {
	if res.Divergent {
		return Verdict{Label: Unclassified, Divergent: true, Err: res.Err}
	}
	if !res.WindowComplete {
		return Verdict{
			Label:     Unclassified,
			Ambiguous: true,
			Err:       fmt.Errorf("%w: window shorter than configured", ErrAmbiguousWindow),
		}
	}
	label, d, err := c.ClassifyWindow(res.Window, mass)
	return Verdict{Label: label, Diagnostics: d, Ambiguous: err != nil, Err: err}
}
