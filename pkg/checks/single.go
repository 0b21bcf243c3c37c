package checks

import "rove/pkg/domain"

// RangeCheck flags payload observations outside [min, max]. Absent
// observations flag DataMissing.
func RangeCheck(cache *domain.DataCache, min, max float64) []FlagSeries {
	return mapPayload(cache, func(v float32) Flag {
		if float64(v) < min || float64(v) > max {
			return Fail
		}
		return Pass
	})
}

// SpecialValuesCheck flags payload observations equal to any of the given
// special values (sensor error codes, unphysical sentinels upstream systems
// leak through).
func SpecialValuesCheck(cache *domain.DataCache, specialValues []float64) []FlagSeries {
	return mapPayload(cache, func(v float32) Flag {
		for _, s := range specialValues {
			if float64(v) == s {
				return Fail
			}
		}
		return Pass
	})
}

// mapPayload applies a pointwise verdict over the payload window of every
// series.
func mapPayload(cache *domain.DataCache, verdict func(float32) Flag) []FlagSeries {
	lo := int(cache.NumLeadingPoints)
	hi := cache.SeriesLen() - int(cache.NumTrailingPoints)

	out := make([]FlagSeries, len(cache.Series))
	for i, series := range cache.Series {
		flags := make([]Flag, 0, hi-lo)
		for k := lo; k < hi; k++ {
			obs := series.Values[k]
			if !obs.Valid {
				flags = append(flags, DataMissing)
				continue
			}
			flags = append(flags, verdict(obs.Val))
		}
		out[i] = FlagSeries{Tag: series.Tag, Flags: flags}
	}
	return out
}
