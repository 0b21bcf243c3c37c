package checks

import (
	"fmt"
	"math"

	"rove/pkg/domain"
)

// Context demand of the series kernels, per run.
const (
	// StepLeadingPerRun is the number of leading points the step check
	// needs.
	StepLeadingPerRun uint8 = 1
	// SpikeLeadingPerRun and SpikeTrailingPerRun are the context the spike
	// check needs on each side.
	SpikeLeadingPerRun  uint8 = 1
	SpikeTrailingPerRun uint8 = 1
)

// FlatlineEpsilon is the tolerance under which consecutive observations
// count as equal for the flatline check.
const FlatlineEpsilon = 0.0001

// StepCheck flags payload observations whose difference from the previous
// observation exceeds max. The cache must carry at least
// StepLeadingPerRun leading points.
func StepCheck(cache *domain.DataCache, max float64) ([]FlagSeries, error) {
	if cache.NumLeadingPoints < StepLeadingPerRun {
		return nil, fmt.Errorf(
			"step check needs %d leading points, cache has %d",
			StepLeadingPerRun, cache.NumLeadingPoints,
		)
	}

	return mapWindowed(cache, func(values []domain.Obs, k int) Flag {
		cur, prev := values[k], values[k-1]
		if !cur.Valid || !prev.Valid {
			return DataMissing
		}
		if math.Abs(float64(cur.Val)-float64(prev.Val)) > max {
			return Fail
		}
		return Pass
	}), nil
}

// SpikeCheck flags payload observations that deviate from both neighbours
// by more than max in the same direction. The cache must carry at least one
// leading and one trailing point.
func SpikeCheck(cache *domain.DataCache, max float64) ([]FlagSeries, error) {
	if cache.NumLeadingPoints < SpikeLeadingPerRun ||
		cache.NumTrailingPoints < SpikeTrailingPerRun {
		return nil, fmt.Errorf(
			"spike check needs %d leading and %d trailing points, cache has %d and %d",
			SpikeLeadingPerRun, SpikeTrailingPerRun,
			cache.NumLeadingPoints, cache.NumTrailingPoints,
		)
	}

	return mapWindowed(cache, func(values []domain.Obs, k int) Flag {
		cur, prev, next := values[k], values[k-1], values[k+1]
		if !cur.Valid || !prev.Valid || !next.Valid {
			return DataMissing
		}
		diffPrev := float64(cur.Val) - float64(prev.Val)
		diffNext := float64(cur.Val) - float64(next.Val)
		if math.Abs(diffPrev) > max && math.Abs(diffNext) > max &&
			diffPrev*diffNext > 0 {
			return Fail
		}
		return Pass
	}), nil
}

// FlatlineCheck flags payload observations that repeat the preceding max
// observations within threshold. The cache must carry at least max leading
// points.
func FlatlineCheck(cache *domain.DataCache, max uint8, threshold float64) ([]FlagSeries, error) {
	if max == 0 {
		return nil, fmt.Errorf("flatline window must be at least 1")
	}
	if cache.NumLeadingPoints < max {
		return nil, fmt.Errorf(
			"flatline check needs %d leading points, cache has %d",
			max, cache.NumLeadingPoints,
		)
	}

	window := int(max)
	return mapWindowed(cache, func(values []domain.Obs, k int) Flag {
		cur := values[k]
		if !cur.Valid {
			return DataMissing
		}
		for j := 1; j <= window; j++ {
			prev := values[k-j]
			if !prev.Valid {
				return DataMissing
			}
			if math.Abs(float64(cur.Val)-float64(prev.Val)) >= threshold {
				return Pass
			}
		}
		return Fail
	}), nil
}

// mapWindowed applies a verdict needing neighbouring context over the
// payload window of every series. The verdict receives the full value
// vector and the absolute index to judge.
func mapWindowed(cache *domain.DataCache, verdict func([]domain.Obs, int) Flag) []FlagSeries {
	lo := int(cache.NumLeadingPoints)
	hi := cache.SeriesLen() - int(cache.NumTrailingPoints)

	out := make([]FlagSeries, len(cache.Series))
	for i, series := range cache.Series {
		flags := make([]Flag, 0, hi-lo)
		for k := lo; k < hi; k++ {
			flags = append(flags, verdict(series.Values, k))
		}
		out[i] = FlagSeries{Tag: series.Tag, Flags: flags}
	}
	return out
}
