package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/timestamp"

	rovev1 "rove/gen/go/rove/v1"
	"rove/pkg/checks"
	"rove/pkg/domain"
	"rove/pkg/harness"
)

func baseRequest() *rovev1.ValidateRequest {
	return &rovev1.ValidateRequest{
		DataSource:     "test",
		StartTime:      &timestamp.Timestamp{Seconds: 1_700_000_000},
		EndTime:        &timestamp.Timestamp{Seconds: 1_700_000_600},
		TimeResolution: "PT5M",
		SpaceSpec:      &rovev1.ValidateRequest_All{All: &empty.Empty{}},
		Pipeline:       "TA_PT1H",
	}
}

func TestTimeSpecFromProto(t *testing.T) {
	spec, err := TimeSpecFromProto(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.Timestamp(1_700_000_000), spec.Timerange.Start)
	assert.Equal(t, domain.Timestamp(1_700_000_600), spec.Timerange.End)
	assert.Equal(t, domain.Minutes(5), spec.TimeResolution)
}

func TestTimeSpecFromProtoErrors(t *testing.T) {
	missingStart := baseRequest()
	missingStart.StartTime = nil
	_, err := TimeSpecFromProto(missingStart)
	assert.Error(t, err)

	badResolution := baseRequest()
	badResolution.TimeResolution = "5 minutes"
	_, err = TimeSpecFromProto(badResolution)
	assert.Error(t, err)
}

func TestSpaceSpecFromProto(t *testing.T) {
	one := baseRequest()
	one.SpaceSpec = &rovev1.ValidateRequest_One{One: "18700"}
	spec, err := SpaceSpecFromProto(one)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceOne, spec.Kind)
	assert.Equal(t, "18700", spec.DataID)

	poly := baseRequest()
	poly.SpaceSpec = &rovev1.ValidateRequest_Polygon{Polygon: &rovev1.Polygon{
		Polygon: []*rovev1.GeoPoint{{Lat: 59, Lon: 10}, {Lat: 60, Lon: 10}, {Lat: 60, Lon: 11}},
	}}
	spec, err = SpaceSpecFromProto(poly)
	require.NoError(t, err)
	assert.Equal(t, domain.SpacePolygon, spec.Kind)
	assert.Len(t, spec.Polygon, 3)

	all := baseRequest()
	spec, err = SpaceSpecFromProto(all)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAll, spec.Kind)

	missing := baseRequest()
	missing.SpaceSpec = nil
	_, err = SpaceSpecFromProto(missing)
	assert.Error(t, err)
}

func TestFlagToProtoPreservesEncoding(t *testing.T) {
	// The integer encoding is a wire contract.
	pairs := []struct {
		in   checks.Flag
		want rovev1.Flag
	}{
		{checks.Pass, rovev1.Flag_FLAG_PASS},
		{checks.Fail, rovev1.Flag_FLAG_FAIL},
		{checks.Warn, rovev1.Flag_FLAG_WARN},
		{checks.Inconclusive, rovev1.Flag_FLAG_INCONCLUSIVE},
		{checks.Invalid, rovev1.Flag_FLAG_INVALID},
		{checks.DataMissing, rovev1.Flag_FLAG_DATA_MISSING},
		{checks.Isolated, rovev1.Flag_FLAG_ISOLATED},
	}
	for _, p := range pairs {
		got, err := FlagToProto(p.in)
		require.NoError(t, err)
		assert.Equal(t, p.want, got)
		assert.Equal(t, int32(p.in), int32(got))
	}
}

func TestCheckResultsToProto(t *testing.T) {
	results := []harness.CheckResult{
		{
			Check: "step_check",
			Results: []checks.FlagSeries{
				{Tag: "s1", Flags: []checks.Flag{checks.Fail, checks.Pass}},
			},
		},
		{
			Check: "spike_check",
			Results: []checks.FlagSeries{
				{Tag: "s1", Flags: []checks.Flag{checks.Pass}},
			},
		},
	}

	pb, err := CheckResultsToProto(results)
	require.NoError(t, err)
	require.Len(t, pb, 2)
	assert.Equal(t, "step_check", pb[0].GetCheck())
	assert.Equal(t, "spike_check", pb[1].GetCheck())
	require.Len(t, pb[0].GetFlagSeries(), 1)
	assert.Equal(t, "s1", pb[0].GetFlagSeries()[0].GetTag())
	assert.Equal(t,
		[]rovev1.Flag{rovev1.Flag_FLAG_FAIL, rovev1.Flag_FLAG_PASS},
		pb[0].GetFlagSeries()[0].GetFlags(),
	)
}
