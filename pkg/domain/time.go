// Package domain holds the core time, space and data-cache model shared by
// the pipeline, the data switch, the checks and the connectors.
//
// The types here are deliberately small and immutable after construction:
// a validation run builds one TimeSpec, one SpaceSpec and receives one
// DataCache, and everything downstream only reads them.
package domain

import (
	"fmt"
	"time"
)

// Timestamp is seconds since the Unix epoch.
type Timestamp int64

// Time converts the timestamp to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Timerange is an inclusive range of time from Start to End.
type Timerange struct {
	Start Timestamp
	End   Timestamp
}

// Validate checks that the range is ordered.
func (tr Timerange) Validate() error {
	if tr.Start > tr.End {
		return fmt.Errorf("timerange start %d after end %d", tr.Start, tr.End)
	}
	return nil
}

// TimeSpec identifies the time axis of a validation run: an inclusive
// timerange and the resolution between consecutive observations.
type TimeSpec struct {
	Timerange      Timerange
	TimeResolution RelativeDuration
}

// NewTimeSpec constructs a TimeSpec from start and end timestamps and a
// resolution.
func NewTimeSpec(start, end Timestamp, resolution RelativeDuration) TimeSpec {
	return TimeSpec{
		Timerange:      Timerange{Start: start, End: end},
		TimeResolution: resolution,
	}
}

// Validate checks the timerange ordering and that the resolution is a
// non-zero duration.
func (ts TimeSpec) Validate() error {
	if err := ts.Timerange.Validate(); err != nil {
		return err
	}
	if ts.TimeResolution.IsZero() {
		return fmt.Errorf("time resolution must be non-zero")
	}
	return nil
}

// ContextAxis returns the spec's time axis widened by the given number of
// context steps on each side: the axis a connector must populate when a
// pipeline demands leading or trailing observations.
func (ts TimeSpec) ContextAxis(numLeading, numTrailing uint8) []Timestamp {
	start := ts.Timerange.Start.Time()
	back := ts.TimeResolution.Scale(-1)
	for i := 0; i < int(numLeading); i++ {
		start = back.AddTo(start)
	}
	end := ts.Timerange.End.Time()
	for i := 0; i < int(numTrailing); i++ {
		end = ts.TimeResolution.AddTo(end)
	}
	widened := NewTimeSpec(Timestamp(start.Unix()), Timestamp(end.Unix()), ts.TimeResolution)
	return widened.Steps()
}

// Steps returns the timestamps covered by the spec, from Start to End
// inclusive, at the spec's resolution.
func (ts TimeSpec) Steps() []Timestamp {
	var out []Timestamp
	t := ts.Timerange.Start.Time()
	end := ts.Timerange.End.Time()
	for !t.After(end) {
		out = append(out, Timestamp(t.Unix()))
		t = ts.TimeResolution.AddTo(t)
	}
	return out
}
