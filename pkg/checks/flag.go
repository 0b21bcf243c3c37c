// Package checks implements the numeric QC kernels the harness dispatches
// to: single-point checks (range, special values), series checks (step,
// spike, flatline) and spatial checks (buddy check, SCT).
//
// Kernels operate on a whole domain.DataCache at a time. Series kernels
// emit flags for the payload window only; spatial kernels run per time step
// and emit flags over the full time axis. The leading/trailing context each
// series kernel needs is exported as a constant so the pipeline can derive
// padding without running anything.
package checks

import "fmt"

// Flag is a per-observation QC verdict. The integer encoding is a wire
// contract and must not change.
type Flag uint8

const (
	// Pass means the observation passed the check.
	Pass Flag = 0
	// Fail means the observation failed the check.
	Fail Flag = 1
	// Warn means the observation is suspicious but not rejected.
	Warn Flag = 2
	// Inconclusive means the check could not reach a verdict.
	Inconclusive Flag = 3
	// Invalid means the observation was unusable as input.
	Invalid Flag = 4
	// DataMissing means the observation (or context it needs) was absent.
	DataMissing Flag = 5
	// Isolated means the station had too few neighbours for a spatial
	// verdict.
	Isolated Flag = 6
)

// numFlags bounds the valid encodings; see FlagFromRaw.
const numFlags = 7

func (f Flag) String() string {
	switch f {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Warn:
		return "warn"
	case Inconclusive:
		return "inconclusive"
	case Invalid:
		return "invalid"
	case DataMissing:
		return "data_missing"
	case Isolated:
		return "isolated"
	}
	return fmt.Sprintf("flag(%d)", uint8(f))
}

// FlagFromRaw converts a raw integer (e.g. off the wire) to a Flag,
// rejecting values outside the known set.
func FlagFromRaw(raw int32) (Flag, error) {
	if raw < 0 || raw >= numFlags {
		return 0, fmt.Errorf("unknown flag value %d", raw)
	}
	return Flag(raw), nil
}

// FlagSeries is one station's flags for one check.
type FlagSeries struct {
	// Tag identifies the station, matching the cache series tag.
	Tag string
	// Flags holds one verdict per flagged time step.
	Flags []Flag
}
