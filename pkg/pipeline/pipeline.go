// Package pipeline defines QC pipelines: ordered sequences of named check
// steps, each carrying the configuration of one check kind, plus the
// derivation of how much leading and trailing context a pipeline demands
// from a data source.
package pipeline

import (
	"fmt"

	"rove/pkg/checks"
)

// CheckConf identifies a check kind and carries its configuration. The set
// of implementations is closed; the harness dispatches over it
// exhaustively.
type CheckConf interface {
	// Kind returns the snake_case check kind, as written in pipeline
	// files.
	Kind() string
	// Demand returns the (leading, trailing) context observations the
	// check needs around the payload window.
	Demand() (leading, trailing uint8)

	checkConf()
}

// SpecialValueCheckConf configures the special-value check.
type SpecialValueCheckConf struct {
	SpecialValues []float64 `toml:"special_values"`
}

// RangeCheckConf configures the static range check.
type RangeCheckConf struct {
	Max float64 `toml:"max"`
	Min float64 `toml:"min"`
}

// RangeCheckDynamicConf configures the dynamic range check. The threshold
// table comes from an external source; without a provider configured the
// scheduler rejects pipelines containing it.
type RangeCheckDynamicConf struct {
	Source string `toml:"source"`
}

// StepCheckConf configures the step check.
type StepCheckConf struct {
	Max float64 `toml:"max"`
}

// SpikeCheckConf configures the spike check.
type SpikeCheckConf struct {
	Max float64 `toml:"max"`
}

// FlatlineCheckConf configures the flatline check; Max is the window
// length, and doubles as the check's leading-context demand.
type FlatlineCheckConf struct {
	Max uint8 `toml:"max"`
}

// BuddyCheckConf configures the buddy check. Scalar parameters are
// broadcast to all stations by the harness.
type BuddyCheckConf struct {
	Radii         float64 `toml:"radii"`
	MinBuddies    int32   `toml:"min_buddies"`
	Threshold     float64 `toml:"threshold"`
	MaxElevDiff   float64 `toml:"max_elev_diff"`
	ElevGradient  float64 `toml:"elev_gradient"`
	MinStd        float64 `toml:"min_std"`
	NumIterations int     `toml:"num_iterations"`
}

// SctConf configures the spatial consistency test. Pos, Neg and Eps2 are
// broadcast to all stations by the harness.
type SctConf struct {
	NumMin             int     `toml:"num_min"`
	NumMax             int     `toml:"num_max"`
	InnerRadius        float64 `toml:"inner_radius"`
	OuterRadius        float64 `toml:"outer_radius"`
	NumIterations      int     `toml:"num_iterations"`
	NumMinProf         int     `toml:"num_min_prof"`
	MinElevDiff        float64 `toml:"min_elev_diff"`
	MinHorizontalScale float64 `toml:"min_horizontal_scale"`
	VerticalScale      float64 `toml:"vertical_scale"`
	Pos                float64 `toml:"pos"`
	Neg                float64 `toml:"neg"`
	Eps2               float64 `toml:"eps2"`
	ObsToCheck         []bool  `toml:"obs_to_check"`
}

// ModelConsistencyCheckConf configures the model consistency check. It
// needs external model data; without a provider configured the scheduler
// rejects pipelines containing it.
type ModelConsistencyCheckConf struct {
	ModelSource string  `toml:"model_source"`
	ModelArgs   string  `toml:"model_args"`
	Threshold   float64 `toml:"threshold"`
}

// DummyConf is a mock check used by integration tests. It is not
// deserialisable from pipeline files; the harness only accepts it on steps
// whose name starts with "test".
type DummyConf struct{}

func (SpecialValueCheckConf) Kind() string     { return "special_value_check" }
func (RangeCheckConf) Kind() string            { return "range_check" }
func (RangeCheckDynamicConf) Kind() string     { return "range_check_dynamic" }
func (StepCheckConf) Kind() string             { return "step_check" }
func (SpikeCheckConf) Kind() string            { return "spike_check" }
func (FlatlineCheckConf) Kind() string         { return "flatline_check" }
func (BuddyCheckConf) Kind() string            { return "buddy_check" }
func (SctConf) Kind() string                   { return "sct" }
func (ModelConsistencyCheckConf) Kind() string { return "model_consistency_check" }
func (DummyConf) Kind() string                 { return "dummy" }

func (SpecialValueCheckConf) Demand() (uint8, uint8)     { return 0, 0 }
func (RangeCheckConf) Demand() (uint8, uint8)            { return 0, 0 }
func (RangeCheckDynamicConf) Demand() (uint8, uint8)     { return 0, 0 }
func (StepCheckConf) Demand() (uint8, uint8)             { return checks.StepLeadingPerRun, 0 }
func (SpikeCheckConf) Demand() (uint8, uint8) {
	return checks.SpikeLeadingPerRun, checks.SpikeTrailingPerRun
}
func (c FlatlineCheckConf) Demand() (uint8, uint8)       { return c.Max, 0 }
func (BuddyCheckConf) Demand() (uint8, uint8)            { return 0, 0 }
func (SctConf) Demand() (uint8, uint8)                   { return 0, 0 }
func (ModelConsistencyCheckConf) Demand() (uint8, uint8) { return 0, 0 }
func (DummyConf) Demand() (uint8, uint8)                 { return 0, 0 }

func (SpecialValueCheckConf) checkConf()     {}
func (RangeCheckConf) checkConf()            {}
func (RangeCheckDynamicConf) checkConf()     {}
func (StepCheckConf) checkConf()             {}
func (SpikeCheckConf) checkConf()            {}
func (FlatlineCheckConf) checkConf()         {}
func (BuddyCheckConf) checkConf()            {}
func (SctConf) checkConf()                   {}
func (ModelConsistencyCheckConf) checkConf() {}
func (DummyConf) checkConf()                 {}

// Step is one entry in a pipeline. Name is an arbitrary label; the same
// check kind may appear under several names with different configurations.
type Step struct {
	Name  string
	Check CheckConf
}

// Pipeline is an ordered sequence of steps, plus the derived context
// demand. The two counts are computed, never user-supplied.
type Pipeline struct {
	Steps               []Step
	NumLeadingRequired  uint8
	NumTrailingRequired uint8
}

// New builds a pipeline from steps, deriving its context demand. A
// pipeline must have at least one step.
func New(steps []Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("pipeline has no steps")
	}
	for _, s := range steps {
		if s.Check == nil {
			return nil, fmt.Errorf("step %q has no check", s.Name)
		}
	}
	p := &Pipeline{Steps: steps}
	p.NumLeadingRequired, p.NumTrailingRequired = DeriveNumLeadingTrailing(steps)
	return p, nil
}

// DeriveNumLeadingTrailing folds the steps' context demands into their
// element-wise maxima: what the scheduler requests from the data source as
// extra context on each side of the QC interval.
func DeriveNumLeadingTrailing(steps []Step) (leading, trailing uint8) {
	for _, s := range steps {
		l, t := s.Check.Demand()
		leading = max(leading, l)
		trailing = max(trailing, t)
	}
	return leading, trailing
}
