package checks

import (
	"fmt"
	"math"
	"sort"

	"rove/pkg/domain"
)

// BuddyCheckArgs parameterises BuddyCheck. Radii and MinBuddies are
// per-station (length N); callers with a single configured scalar broadcast
// it to all stations.
type BuddyCheckArgs struct {
	// Radii is the buddy search radius per station, in metres.
	Radii []float64
	// MinBuddies is the minimum number of buddies needed before a station
	// is judged at all.
	MinBuddies []int32
	// Threshold is the number of adjusted standard deviations an
	// observation may sit from the buddy mean.
	Threshold float64
	// MaxElevDiff excludes buddies more than this many metres above or
	// below the station; negative disables the filter.
	MaxElevDiff float64
	// ElevGradient adjusts buddy values for elevation difference
	// (degrees per metre, typically the lapse rate).
	ElevGradient float64
	// MinStd floors the buddy standard deviation.
	MinStd float64
	// NumIterations re-runs the test, excluding stations flagged in
	// earlier rounds from buddy lists.
	NumIterations int
}

func (a *BuddyCheckArgs) validate(n int) error {
	if len(a.Radii) != n || len(a.MinBuddies) != n {
		return fmt.Errorf(
			"buddy check args cover %d/%d stations, want %d",
			len(a.Radii), len(a.MinBuddies), n,
		)
	}
	if a.NumIterations < 1 {
		return fmt.Errorf("buddy check needs at least 1 iteration")
	}
	return nil
}

// BuddyCheck compares each observation against the mean of its neighbours
// within a radius, adjusted for elevation. Stations with too few buddies
// are left unflagged. Flags cover the full time axis; the check runs
// independently per time step.
//
// obsToCheck, when non-nil, masks which stations are judged; masked-out
// stations still serve as buddies.
func BuddyCheck(cache *domain.DataCache, args *BuddyCheckArgs, obsToCheck []bool) ([]FlagSeries, error) {
	n := cache.NumStations()
	if err := args.validate(n); err != nil {
		return nil, err
	}
	if obsToCheck != nil && len(obsToCheck) != n {
		return nil, fmt.Errorf("obs_to_check covers %d stations, want %d", len(obsToCheck), n)
	}

	seriesLen := cache.SeriesLen()
	flags := newFullGrid(cache)

	for k := 0; k < seriesLen; k++ {
		stepFlags := make([]Flag, n)
		for i := 0; i < n; i++ {
			if !cache.Series[i].Values[k].Valid {
				stepFlags[i] = DataMissing
			}
		}

		for iter := 0; iter < args.NumIterations; iter++ {
			changed := false
			for i := 0; i < n; i++ {
				if stepFlags[i] != Pass {
					continue
				}
				if obsToCheck != nil && !obsToCheck[i] {
					continue
				}

				mean, std, count := buddyStats(cache, args, stepFlags, i, k)
				if count < int(args.MinBuddies[i]) {
					continue
				}
				std = math.Max(std, args.MinStd)

				v := float64(cache.Series[i].Values[k].Val)
				if math.Abs(v-mean)/std > args.Threshold {
					stepFlags[i] = Fail
					changed = true
				}
			}
			if !changed {
				break
			}
		}

		for i := 0; i < n; i++ {
			flags[i].Flags[k] = stepFlags[i]
		}
	}

	return flags, nil
}

// buddyStats returns the elevation-adjusted mean and standard deviation of
// station i's usable buddies at time step k.
func buddyStats(cache *domain.DataCache, args *BuddyCheckArgs, stepFlags []Flag, i, k int) (mean, std float64, count int) {
	var sum, sumSq float64
	for _, j := range cache.RTree.Neighbours(i, args.Radii[i]) {
		if stepFlags[j] != Pass {
			continue
		}
		elevDiff := float64(cache.Elevs[i]) - float64(cache.Elevs[j])
		if args.MaxElevDiff >= 0 && math.Abs(elevDiff) > args.MaxElevDiff {
			continue
		}
		v := float64(cache.Series[j].Values[k].Val) + args.ElevGradient*elevDiff
		sum += v
		sumSq += v * v
		count++
	}
	if count == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance > 0 {
		std = math.Sqrt(variance)
	}
	return mean, std, count
}

// SctArgs parameterises Sct. Pos, Neg and Eps2 are per-station (length N);
// callers with scalars broadcast.
type SctArgs struct {
	// NumMin is the minimum number of neighbours inside the outer radius
	// for a station to be judged; below it the station flags Isolated.
	NumMin int
	// NumMax caps how many of the closest neighbours feed the analysis.
	NumMax int
	// InnerRadius and OuterRadius bound the neighbourhood, in metres.
	InnerRadius float64
	OuterRadius float64
	// NumIterations re-runs the test, excluding stations flagged in
	// earlier rounds.
	NumIterations int
	// NumMinProf is the minimum neighbourhood size for fitting a vertical
	// temperature profile instead of using the plain mean.
	NumMinProf int
	// MinElevDiff is the elevation spread a neighbourhood needs before a
	// profile fit is attempted.
	MinElevDiff float64
	// MinHorizontalScale and VerticalScale shape the correlation weights.
	MinHorizontalScale float64
	VerticalScale      float64
	// Pos and Neg are the chi-square rejection thresholds for positive and
	// negative deviations from the background.
	Pos []float64
	Neg []float64
	// Eps2 is the observation-to-background error variance ratio.
	Eps2 []float64
}

func (a *SctArgs) validate(n int) error {
	if len(a.Pos) != n || len(a.Neg) != n || len(a.Eps2) != n {
		return fmt.Errorf(
			"sct args cover %d/%d/%d stations, want %d",
			len(a.Pos), len(a.Neg), len(a.Eps2), n,
		)
	}
	if a.NumMin < 1 || a.NumMax < a.NumMin {
		return fmt.Errorf("sct needs 1 <= num_min <= num_max")
	}
	if a.NumIterations < 1 {
		return fmt.Errorf("sct needs at least 1 iteration")
	}
	if a.OuterRadius < a.InnerRadius {
		return fmt.Errorf("sct outer radius smaller than inner radius")
	}
	return nil
}

// Sct is the spatial consistency test: each observation is compared against
// a background interpolated from its neighbourhood, and rejected when its
// deviation is statistically implausible given the local spread. Stations
// with fewer than NumMin neighbours inside the outer radius flag Isolated.
// Flags cover the full time axis.
//
// obsToCheck, when non-nil, masks which stations are judged; masked-out
// stations still contribute to backgrounds.
func Sct(cache *domain.DataCache, args *SctArgs, obsToCheck []bool) ([]FlagSeries, error) {
	n := cache.NumStations()
	if err := args.validate(n); err != nil {
		return nil, err
	}
	if obsToCheck != nil && len(obsToCheck) != n {
		return nil, fmt.Errorf("obs_to_check covers %d stations, want %d", len(obsToCheck), n)
	}

	seriesLen := cache.SeriesLen()
	flags := newFullGrid(cache)

	neighbours := make([][]int, n)
	for i := 0; i < n; i++ {
		neighbours[i] = closest(cache, i, args.OuterRadius, args.NumMax)
	}

	for k := 0; k < seriesLen; k++ {
		stepFlags := make([]Flag, n)
		for i := 0; i < n; i++ {
			if !cache.Series[i].Values[k].Valid {
				stepFlags[i] = DataMissing
			} else if len(neighbours[i]) < args.NumMin {
				stepFlags[i] = Isolated
			}
		}

		for iter := 0; iter < args.NumIterations; iter++ {
			changed := false
			for i := 0; i < n; i++ {
				if stepFlags[i] != Pass {
					continue
				}
				if obsToCheck != nil && !obsToCheck[i] {
					continue
				}
				if sctJudge(cache, args, neighbours[i], stepFlags, i, k) {
					stepFlags[i] = Fail
					changed = true
				}
			}
			if !changed {
				break
			}
		}

		for i := 0; i < n; i++ {
			flags[i].Flags[k] = stepFlags[i]
		}
	}

	return flags, nil
}

// sctJudge reports whether station i's observation at step k should be
// rejected against its neighbourhood background.
func sctJudge(cache *domain.DataCache, args *SctArgs, neigh []int, stepFlags []Flag, i, k int) bool {
	vi := float64(cache.Series[i].Values[k].Val)
	ei := float64(cache.Elevs[i])

	// Background and spread from correlation-weighted neighbours,
	// cross-validated (the station itself is excluded).
	var wSum, bg, spread float64
	var values, elevs []float64
	for _, j := range neigh {
		if stepFlags[j] != Pass {
			continue
		}
		v := float64(cache.Series[j].Values[k].Val)
		values = append(values, v)
		elevs = append(elevs, float64(cache.Elevs[j]))

		d := math.Max(cache.RTree.Distance(i, j), args.InnerRadius/10)
		dz := ei - float64(cache.Elevs[j])
		w := math.Exp(
			-0.5*sq(d/math.Max(args.MinHorizontalScale, 1)) -
				0.5*sq(dz/math.Max(args.VerticalScale, 1)),
		)
		wSum += w
		bg += w * v
	}
	if len(values) < args.NumMin || wSum <= 0 {
		return false
	}
	bg /= wSum

	// With a deep enough neighbourhood spanning real elevation range, tilt
	// the background along the fitted vertical profile.
	if len(values) >= args.NumMinProf {
		if gamma, ok := verticalProfile(values, elevs, args.MinElevDiff); ok {
			meanElev := mean(elevs)
			bg += gamma * (ei - meanElev)
		}
	}

	for _, v := range values {
		spread += sq(v - bg)
	}
	sigma2 := spread / float64(len(values))
	if sigma2 < 1e-6 {
		sigma2 = 1e-6
	}

	dev := vi - bg
	chi := sq(dev) / (sigma2 * (1 + args.Eps2[i]))
	if dev >= 0 {
		return chi > sq(args.Pos[i])
	}
	return chi > sq(args.Neg[i])
}

// verticalProfile fits values = a + gamma*elev by least squares, provided
// the elevation spread is meaningful.
func verticalProfile(values, elevs []float64, minElevDiff float64) (gamma float64, ok bool) {
	lo, hi := elevs[0], elevs[0]
	for _, e := range elevs {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	if hi-lo < minElevDiff {
		return 0, false
	}

	me, mv := mean(elevs), mean(values)
	var num, den float64
	for i := range elevs {
		num += (elevs[i] - me) * (values[i] - mv)
		den += sq(elevs[i] - me)
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// closest returns up to limit nearest neighbours of station i within
// radius, nearest first.
func closest(cache *domain.DataCache, i int, radius float64, limit int) []int {
	neigh := cache.RTree.Neighbours(i, radius)
	dist := make(map[int]float64, len(neigh))
	for _, j := range neigh {
		dist[j] = cache.RTree.Distance(i, j)
	}
	sort.Slice(neigh, func(a, b int) bool { return dist[neigh[a]] < dist[neigh[b]] })
	if len(neigh) > limit {
		neigh = neigh[:limit]
	}
	return neigh
}

func newFullGrid(cache *domain.DataCache) []FlagSeries {
	out := make([]FlagSeries, len(cache.Series))
	for i, series := range cache.Series {
		out[i] = FlagSeries{Tag: series.Tag, Flags: make([]Flag, len(series.Values))}
	}
	return out
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func sq(x float64) float64 { return x * x }
