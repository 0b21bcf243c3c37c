// Package harness runs single pipeline steps against a data cache. It owns
// the dispatch from a step's check configuration to the matching numeric
// kernel, the broadcast of scalar parameters to per-station arguments, and
// the wrapping of kernel output into a CheckResult.
package harness

import (
	"strings"

	"rove/pkg/apperror"
	"rove/pkg/checks"
	"rove/pkg/domain"
	"rove/pkg/pipeline"
)

// CheckResult is the outcome of one pipeline step: the step's name and one
// flag series per station.
type CheckResult struct {
	Check   string
	Results []checks.FlagSeries
}

// RunCheck executes one pipeline step against the cache.
//
// Series kernels flag the payload window only; spatial kernels flag the
// full time axis. The timestamp of flag k of a series kernel is
// cache.TimestampAt(int(cache.NumLeadingPoints) + k); it is derivable and
// not materialised here.
func RunCheck(step pipeline.Step, cache *domain.DataCache) (CheckResult, error) {
	var (
		flags []checks.FlagSeries
		err   error
	)

	switch conf := step.Check.(type) {
	case pipeline.SpecialValueCheckConf:
		flags = checks.SpecialValuesCheck(cache, conf.SpecialValues)

	case pipeline.RangeCheckConf:
		flags = checks.RangeCheck(cache, conf.Min, conf.Max)

	case pipeline.StepCheckConf:
		flags, err = checks.StepCheck(cache, conf.Max)

	case pipeline.SpikeCheckConf:
		flags, err = checks.SpikeCheck(cache, conf.Max)

	case pipeline.FlatlineCheckConf:
		flags, err = checks.FlatlineCheck(cache, conf.Max, checks.FlatlineEpsilon)

	case pipeline.BuddyCheckConf:
		n := cache.NumStations()
		flags, err = checks.BuddyCheck(cache, &checks.BuddyCheckArgs{
			Radii:         broadcast(conf.Radii, n),
			MinBuddies:    broadcast(conf.MinBuddies, n),
			Threshold:     conf.Threshold,
			MaxElevDiff:   conf.MaxElevDiff,
			ElevGradient:  conf.ElevGradient,
			MinStd:        conf.MinStd,
			NumIterations: conf.NumIterations,
		}, nil)

	case pipeline.SctConf:
		n := cache.NumStations()
		var obsToCheck []bool
		if len(conf.ObsToCheck) > 0 {
			obsToCheck = conf.ObsToCheck
		}
		flags, err = checks.Sct(cache, &checks.SctArgs{
			NumMin:             conf.NumMin,
			NumMax:             conf.NumMax,
			InnerRadius:        conf.InnerRadius,
			OuterRadius:        conf.OuterRadius,
			NumIterations:      conf.NumIterations,
			NumMinProf:         conf.NumMinProf,
			MinElevDiff:        conf.MinElevDiff,
			MinHorizontalScale: conf.MinHorizontalScale,
			VerticalScale:      conf.VerticalScale,
			Pos:                broadcast(conf.Pos, n),
			Neg:                broadcast(conf.Neg, n),
			Eps2:               broadcast(conf.Eps2, n),
		}, obsToCheck)

	case pipeline.RangeCheckDynamicConf:
		return CheckResult{}, apperror.Newf(
			apperror.CodeUnprovidedCheck,
			"step %q: no threshold provider configured for range_check_dynamic", step.Name,
		)

	case pipeline.ModelConsistencyCheckConf:
		return CheckResult{}, apperror.Newf(
			apperror.CodeUnprovidedCheck,
			"step %q: no model provider configured for model_consistency_check", step.Name,
		)

	case pipeline.DummyConf:
		// Integration-test hook; only steps named test* may use it.
		if !strings.HasPrefix(step.Name, "test") {
			return CheckResult{}, apperror.Newf(
				apperror.CodeInvalidTestName, "test name %q not found in runner", step.Name,
			)
		}
		flags = []checks.FlagSeries{{Tag: "test", Flags: []checks.Flag{checks.Inconclusive}}}

	default:
		return CheckResult{}, apperror.Newf(
			apperror.CodeUnknownCheck, "step %q: unknown check kind %q", step.Name, step.Check.Kind(),
		)
	}

	if err != nil {
		return CheckResult{}, apperror.Wrapf(
			err, apperror.CodeKernelFailure, "failed to run test %q", step.Name,
		)
	}

	return CheckResult{Check: step.Name, Results: flags}, nil
}

// broadcast expands a single configured scalar to a per-station argument
// vector.
func broadcast[T any](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
