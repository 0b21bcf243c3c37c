package domain

import "fmt"

// Obs is an optional observation. Gaps in a series are Valid=false, never
// NaN or a sentinel number, so the numeric checks stay pure.
type Obs struct {
	Val   float32
	Valid bool
}

// Some wraps a present observation.
func Some(v float32) Obs { return Obs{Val: v, Valid: true} }

// None is an absent observation.
func None() Obs { return Obs{} }

// Timeseries is one station's observations, aligned to the time axis of the
// cache that holds it.
type Timeseries struct {
	// Tag identifies the station the series belongs to.
	Tag string
	// Values holds one optional observation per time step.
	Values []Obs
}

// DataCache is the in-memory bundle one validation runs against: station
// metadata, time-aligned observation vectors and a spatial index. It is
// built by a connector, owned by the scheduler for the duration of one
// validation, and immutable thereafter.
type DataCache struct {
	// Series holds one timeseries per station. All series have identical
	// length; Series[i].Values[k] is the observation at
	// StartTime + k*Period.
	Series []Timeseries
	// Lats, Lons and Elevs are parallel to Series (degrees, degrees,
	// metres above sea level).
	Lats  []float32
	Lons  []float32
	Elevs []float32
	// StartTime is the time of the first element of every series,
	// including leading context.
	StartTime Timestamp
	// Period is the resolution between consecutive elements.
	Period RelativeDuration
	// RTree indexes the stations in series order.
	RTree *SpatialTree
	// NumLeadingPoints and NumTrailingPoints count context observations on
	// either side of the payload window. The payload to be QCed occupies
	// indices [NumLeadingPoints, T-NumTrailingPoints).
	NumLeadingPoints  uint8
	NumTrailingPoints uint8
}

// NewDataCache bundles series and geometry into a cache, building the
// R*-tree so connectors never construct one manually.
func NewDataCache(
	series []Timeseries,
	lats, lons, elevs []float32,
	startTime Timestamp,
	period RelativeDuration,
	numLeadingPoints, numTrailingPoints uint8,
) *DataCache {
	return &DataCache{
		Series:            series,
		Lats:              lats,
		Lons:              lons,
		Elevs:             elevs,
		StartTime:         startTime,
		Period:            period,
		RTree:             NewSpatialTree(lats, lons, elevs),
		NumLeadingPoints:  numLeadingPoints,
		NumTrailingPoints: numTrailingPoints,
	}
}

// NumStations returns N, the number of stations in the cache.
func (c *DataCache) NumStations() int {
	return len(c.Series)
}

// SeriesLen returns T, the common length of every series, or 0 for an empty
// cache.
func (c *DataCache) SeriesLen() int {
	if len(c.Series) == 0 {
		return 0
	}
	return len(c.Series[0].Values)
}

// PayloadLen returns the number of observations per station subject to QC.
func (c *DataCache) PayloadLen() int {
	return c.SeriesLen() - int(c.NumLeadingPoints) - int(c.NumTrailingPoints)
}

// TimestampAt returns the time of element k of every series.
func (c *DataCache) TimestampAt(k int) Timestamp {
	return Timestamp(c.Period.Scale(k).AddTo(c.StartTime.Time()).Unix())
}

// Validate checks the cache invariants: uniform series length, parallel
// geometry vectors, room for the context windows, index cardinality and a
// non-zero period.
func (c *DataCache) Validate() error {
	n := len(c.Series)
	if len(c.Lats) != n || len(c.Lons) != n || len(c.Elevs) != n {
		return fmt.Errorf(
			"geometry vectors (%d/%d/%d) do not match %d stations",
			len(c.Lats), len(c.Lons), len(c.Elevs), n,
		)
	}
	t := c.SeriesLen()
	for i := range c.Series {
		if len(c.Series[i].Values) != t {
			return fmt.Errorf(
				"series %q has length %d, want %d",
				c.Series[i].Tag, len(c.Series[i].Values), t,
			)
		}
	}
	// An empty cache (All/Polygon selections may match no stations) has
	// no time axis to check context against.
	if n > 0 && t < int(c.NumLeadingPoints)+int(c.NumTrailingPoints) {
		return fmt.Errorf(
			"series length %d shorter than context %d+%d",
			t, c.NumLeadingPoints, c.NumTrailingPoints,
		)
	}
	if c.RTree == nil || c.RTree.Len() != n {
		return fmt.Errorf("spatial index does not cover all %d stations", n)
	}
	if c.Period.IsZero() {
		return fmt.Errorf("cache period must be non-zero")
	}
	return nil
}
