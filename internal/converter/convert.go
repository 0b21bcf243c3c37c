// Package converter translates between the protobuf API surface and the
// internal QC domain types.
//
// All functions are stateless and thread-safe. Conversions never mutate
// their inputs; returned slices are newly allocated.
package converter

import (
	rovev1 "rove/gen/go/rove/v1"
	"rove/pkg/apperror"
	"rove/pkg/checks"
	"rove/pkg/domain"
	"rove/pkg/harness"
)

// TimeSpecFromProto builds the domain time spec from request fields,
// parsing the ISO-8601 resolution.
func TimeSpecFromProto(req *rovev1.ValidateRequest) (domain.TimeSpec, error) {
	if req.GetStartTime() == nil {
		return domain.TimeSpec{}, apperror.NewWithField(
			apperror.CodeInvalidTimeSpec, "missing timestamp", "start_time",
		)
	}
	if req.GetEndTime() == nil {
		return domain.TimeSpec{}, apperror.NewWithField(
			apperror.CodeInvalidTimeSpec, "missing timestamp", "end_time",
		)
	}

	resolution, err := domain.ParseDuration(req.GetTimeResolution())
	if err != nil {
		return domain.TimeSpec{}, apperror.Wrap(
			err, apperror.CodeInvalidTimeSpec, "invalid time_resolution",
		).WithField("time_resolution")
	}

	return domain.NewTimeSpec(
		domain.Timestamp(req.GetStartTime().GetSeconds()),
		domain.Timestamp(req.GetEndTime().GetSeconds()),
		resolution,
	), nil
}

// SpaceSpecFromProto builds the domain space spec from the request's oneof.
func SpaceSpecFromProto(req *rovev1.ValidateRequest) (domain.SpaceSpec, error) {
	switch spec := req.GetSpaceSpec().(type) {
	case *rovev1.ValidateRequest_One:
		return domain.One(spec.One), nil
	case *rovev1.ValidateRequest_Polygon:
		vertices := spec.Polygon.GetPolygon()
		polygon := make(domain.Polygon, 0, len(vertices))
		for _, pt := range vertices {
			polygon = append(polygon, domain.GeoPoint{Lat: pt.GetLat(), Lon: pt.GetLon()})
		}
		return domain.InPolygon(polygon), nil
	case *rovev1.ValidateRequest_All:
		return domain.All(), nil
	default:
		return domain.SpaceSpec{}, apperror.NewWithField(
			apperror.CodeInvalidSpaceSpec, "missing space spec", "space_spec",
		)
	}
}

// FlagToProto maps a kernel flag onto its wire encoding. The numeric values
// coincide by contract; mapping through the enum keeps out-of-range values
// impossible.
func FlagToProto(f checks.Flag) (rovev1.Flag, error) {
	switch f {
	case checks.Pass:
		return rovev1.Flag_FLAG_PASS, nil
	case checks.Fail:
		return rovev1.Flag_FLAG_FAIL, nil
	case checks.Warn:
		return rovev1.Flag_FLAG_WARN, nil
	case checks.Inconclusive:
		return rovev1.Flag_FLAG_INCONCLUSIVE, nil
	case checks.Invalid:
		return rovev1.Flag_FLAG_INVALID, nil
	case checks.DataMissing:
		return rovev1.Flag_FLAG_DATA_MISSING, nil
	case checks.Isolated:
		return rovev1.Flag_FLAG_ISOLATED, nil
	default:
		return 0, apperror.Newf(apperror.CodeUnknownFlag, "unknown flag %d", uint8(f))
	}
}

// CheckResultsToProto converts harness output to the response shape,
// preserving pipeline order.
func CheckResultsToProto(results []harness.CheckResult) ([]*rovev1.CheckResult, error) {
	out := make([]*rovev1.CheckResult, 0, len(results))
	for _, result := range results {
		series := make([]*rovev1.FlagSeries, 0, len(result.Results))
		for _, fs := range result.Results {
			flags := make([]rovev1.Flag, 0, len(fs.Flags))
			for _, f := range fs.Flags {
				pf, err := FlagToProto(f)
				if err != nil {
					return nil, err
				}
				flags = append(flags, pf)
			}
			series = append(series, &rovev1.FlagSeries{Tag: fs.Tag, Flags: flags})
		}
		out = append(out, &rovev1.CheckResult{Check: result.Check, FlagSeries: series})
	}
	return out, nil
}
