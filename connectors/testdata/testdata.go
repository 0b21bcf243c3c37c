// Package testdata provides a deterministic in-memory data source for
// integration tests and benchmarks. It fabricates caches of configurable
// size instead of touching any upstream system.
package testdata

import (
	"context"
	"math"

	"rove/pkg/apperror"
	"rove/pkg/domain"
)

// Source fabricates observation caches. The three lengths control how much
// data the different space selections return.
type Source struct {
	// DataLenSingle is the series length returned for One("single").
	DataLenSingle int
	// DataLenSeries is the series length returned for One("series").
	DataLenSeries int
	// DataLenSpatial is the station count returned for All.
	DataLenSpatial int
}

// FetchData fabricates a cache for the selection. One("single") and
// One("series") return a lone station with a constant series; All returns
// DataLenSpatial stations scattered over a few degrees with a minimal
// series. Polygon selections are not offered.
func (s *Source) FetchData(
	_ context.Context,
	spaceSpec domain.SpaceSpec,
	_ domain.TimeSpec,
	numLeading, numTrailing uint8,
	_ string,
) (*domain.DataCache, error) {
	switch spaceSpec.Kind {
	case domain.SpaceOne:
		var length int
		switch spaceSpec.DataID {
		case "single":
			length = s.DataLenSingle
		case "series":
			length = s.DataLenSeries
		default:
			return nil, apperror.Newf(
				apperror.CodeInvalidExtraSpec, "unknown data id %q", spaceSpec.DataID,
			)
		}
		return domain.NewDataCache(
			[]domain.Timeseries{{Tag: spaceSpec.DataID, Values: constantSeries(length)}},
			[]float32{0}, []float32{0}, []float32{0},
			domain.Timestamp(0),
			domain.Minutes(5),
			numLeading, numTrailing,
		), nil

	case domain.SpaceAll:
		n := s.DataLenSpatial
		length := int(numLeading) + 1 + int(numTrailing)

		series := make([]domain.Timeseries, n)
		lats := make([]float32, n)
		lons := make([]float32, n)
		elevs := make([]float32, n)
		for i := 0; i < n; i++ {
			series[i] = domain.Timeseries{Tag: "test", Values: constantSeries(length)}
			lats[i] = float32(math.Mod(float64(i)*float64(i)*0.001, 3))
			lons[i] = float32(math.Mod(float64(i+1)*float64(i+1)*0.001, 3))
			elevs[i] = 1
		}
		return domain.NewDataCache(
			series, lats, lons, elevs,
			domain.Timestamp(0),
			domain.Minutes(5),
			numLeading, numTrailing,
		), nil

	default:
		return nil, apperror.New(
			apperror.CodeUnimplementedSpatial, "test data source does not offer polygon selections",
		)
	}
}

func constantSeries(length int) []domain.Obs {
	values := make([]domain.Obs, length)
	for i := range values {
		values[i] = domain.Some(1)
	}
	return values
}
