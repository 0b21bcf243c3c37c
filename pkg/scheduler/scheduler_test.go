package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rove/pkg/apperror"
	"rove/pkg/checks"
	"rove/pkg/dataswitch"
	"rove/pkg/domain"
	"rove/pkg/pipeline"
)

// recordingConnector serves a canned cache and records the padding it was
// asked for.
type recordingConnector struct {
	cache       *domain.DataCache
	calls       int
	gotLeading  uint8
	gotTrailing uint8
}

func (c *recordingConnector) FetchData(
	_ context.Context,
	_ domain.SpaceSpec,
	_ domain.TimeSpec,
	numLeading, numTrailing uint8,
	_ string,
) (*domain.DataCache, error) {
	c.calls++
	c.gotLeading = numLeading
	c.gotTrailing = numTrailing

	cache := c.cache
	cache.NumLeadingPoints = numLeading
	cache.NumTrailingPoints = numTrailing
	return cache, nil
}

func singleStation(values ...float32) *domain.DataCache {
	obs := make([]domain.Obs, len(values))
	for i, v := range values {
		obs[i] = domain.Some(v)
	}
	return domain.NewDataCache(
		[]domain.Timeseries{{Tag: "s1", Values: obs}},
		[]float32{60}, []float32{10}, []float32{0},
		domain.Timestamp(1_700_000_000), domain.Minutes(5), 0, 0,
	)
}

func mustPipeline(t *testing.T, steps ...pipeline.Step) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(steps)
	require.NoError(t, err)
	return p
}

func newScheduler(t *testing.T, pipelines map[string]*pipeline.Pipeline, conn dataswitch.Connector) *Scheduler {
	t.Helper()
	dsw := dataswitch.New()
	require.NoError(t, dsw.Register("test", conn))
	return New(pipelines, dsw)
}

func defaultSpecs() (domain.TimeSpec, domain.SpaceSpec) {
	return domain.NewTimeSpec(domain.Timestamp(1_700_000_000), domain.Timestamp(1_700_000_600), domain.Minutes(5)),
		domain.One("s1")
}

func TestValidateDirectSingleStationRangeCheck(t *testing.T) {
	conn := &recordingConnector{cache: singleStation(0, 10, -5)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{
		"rc_pipeline": mustPipeline(t, pipeline.Step{
			Name: "rc", Check: pipeline.RangeCheckConf{Min: -50, Max: 50},
		}),
	}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	results, err := sched.ValidateDirect(
		context.Background(), "test", nil, timeSpec, spaceSpec, "rc_pipeline", "",
	)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "rc", results[0].Check)
	require.Len(t, results[0].Results, 1)
	assert.Equal(t, "s1", results[0].Results[0].Tag)
	assert.Equal(t, []checks.Flag{checks.Pass, checks.Pass, checks.Pass}, results[0].Results[0].Flags)
}

func TestValidateDirectDerivedPaddingIsRequested(t *testing.T) {
	conn := &recordingConnector{cache: singleStation(0, 10, 10.5)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{
		"sc_pipeline": mustPipeline(t, pipeline.Step{
			Name: "sc", Check: pipeline.StepCheckConf{Max: 3},
		}),
	}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	results, err := sched.ValidateDirect(
		context.Background(), "test", nil, timeSpec, spaceSpec, "sc_pipeline", "",
	)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), conn.gotLeading)
	assert.Equal(t, uint8(0), conn.gotTrailing)

	// Payload covers the last two observations: the 0->10 jump fails.
	assert.Equal(t, []checks.Flag{checks.Fail, checks.Pass}, results[0].Results[0].Flags)
}

func TestValidateDirectPreservesStepOrder(t *testing.T) {
	conn := &recordingConnector{cache: singleStation(0, 0, 10, 0, 0)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{
		"two_step": mustPipeline(t,
			pipeline.Step{Name: "step_check", Check: pipeline.StepCheckConf{Max: 3}},
			pipeline.Step{Name: "spike_check", Check: pipeline.SpikeCheckConf{Max: 3}},
		),
	}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	results, err := sched.ValidateDirect(
		context.Background(), "test", nil, timeSpec, spaceSpec, "two_step", "",
	)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "step_check", results[0].Check)
	assert.Equal(t, "spike_check", results[1].Check)
}

func TestValidateDirectUnknownPipeline(t *testing.T) {
	conn := &recordingConnector{cache: singleStation(1)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	_, err := sched.ValidateDirect(
		context.Background(), "test", nil, timeSpec, spaceSpec, "nosuch", "",
	)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeUnknownPipeline))
	assert.Zero(t, conn.calls)
}

func TestValidateDirectUnknownSource(t *testing.T) {
	conn := &recordingConnector{cache: singleStation(1)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{
		"p": mustPipeline(t, pipeline.Step{
			Name: "rc", Check: pipeline.RangeCheckConf{Min: -1, Max: 1},
		}),
	}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	_, err := sched.ValidateDirect(
		context.Background(), "nosuch", nil, timeSpec, spaceSpec, "p", "",
	)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeUnknownDataSource))
	assert.Zero(t, conn.calls)
}

func TestValidateDirectRejectsUnprovidedChecks(t *testing.T) {
	// Checks without a configured provider fail at validation time,
	// before any data is fetched.
	conn := &recordingConnector{cache: singleStation(1)}
	sched := newScheduler(t, map[string]*pipeline.Pipeline{
		"dynamic": mustPipeline(t, pipeline.Step{
			Name: "rcd", Check: pipeline.RangeCheckDynamicConf{Source: "x"},
		}),
	}, conn)

	timeSpec, spaceSpec := defaultSpecs()
	_, err := sched.ValidateDirect(
		context.Background(), "test", nil, timeSpec, spaceSpec, "dynamic", "",
	)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeUnprovidedCheck))
	assert.Zero(t, conn.calls)
}

func TestScheduleFailClosed(t *testing.T) {
	// A failing step aborts the run: no partial results.
	cache := singleStation(0, 1, 2)
	sched := New(nil, dataswitch.New())

	p := mustPipeline(t,
		pipeline.Step{Name: "rc", Check: pipeline.RangeCheckConf{Min: -50, Max: 50}},
		// Step check will fail: the cache carries no leading context.
		pipeline.Step{Name: "sc", Check: pipeline.StepCheckConf{Max: 3}},
		pipeline.Step{Name: "rc2", Check: pipeline.RangeCheckConf{Min: -50, Max: 50}},
	)

	results, err := sched.Schedule(context.Background(), p, cache)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeKernelFailure))
	assert.Nil(t, results)
}

func TestScheduleCancellationBetweenSteps(t *testing.T) {
	cache := singleStation(0, 1, 2)
	sched := New(nil, dataswitch.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := mustPipeline(t, pipeline.Step{
		Name: "rc", Check: pipeline.RangeCheckConf{Min: -50, Max: 50},
	})
	_, err := sched.Schedule(ctx, p, cache)
	assert.Error(t, err)
}

func TestScheduleDeterministic(t *testing.T) {
	cache := singleStation(0, 10, -5)
	sched := New(nil, dataswitch.New())
	p := mustPipeline(t, pipeline.Step{
		Name: "rc", Check: pipeline.RangeCheckConf{Min: -5, Max: 5},
	})

	first, err := sched.Schedule(context.Background(), p, cache)
	require.NoError(t, err)
	second, err := sched.Schedule(context.Background(), p, cache)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
