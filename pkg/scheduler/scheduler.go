// Package scheduler is the top-level orchestration of one validation run:
// resolve the pipeline, derive its context demand, fetch one coherent cache
// through the data switch, run every step, and collect the results.
package scheduler

import (
	"context"
	"time"

	"rove/pkg/apperror"
	"rove/pkg/dataswitch"
	"rove/pkg/domain"
	"rove/pkg/harness"
	"rove/pkg/logger"
	"rove/pkg/metrics"
	"rove/pkg/pipeline"
	"rove/pkg/telemetry"
)

// Scheduler holds the pipeline table and the data switch. Both are
// read-only after construction, so one scheduler serves concurrent
// validations without locking.
type Scheduler struct {
	pipelines map[string]*pipeline.Pipeline
	dsw       *dataswitch.DataSwitch
}

// New creates a scheduler over a pipeline table and a data switch.
func New(pipelines map[string]*pipeline.Pipeline, dsw *dataswitch.DataSwitch) *Scheduler {
	return &Scheduler{pipelines: pipelines, dsw: dsw}
}

// Pipelines exposes the pipeline table (read-only; callers must not
// mutate).
func (s *Scheduler) Pipelines() map[string]*pipeline.Pipeline {
	return s.pipelines
}

// ValidateDirect runs the named pipeline over data fetched from
// dataSource.
//
// backingSources name additional sources whose data would only provide
// context for spatial checks, never be QCed itself. The current contract
// accepts them but forwards only the primary source; merging auxiliary
// caches is a known limitation.
//
// extraSpec is passed verbatim to the connector; "" means absent.
//
// Any error, whether an unknown pipeline, a fetch failure, or a kernel failure,
// aborts the run. No partial results are returned: consumers see either a
// complete pipeline result or none.
func (s *Scheduler) ValidateDirect(
	ctx context.Context,
	dataSource string,
	backingSources []string,
	timeSpec domain.TimeSpec,
	spaceSpec domain.SpaceSpec,
	pipelineName string,
	extraSpec string,
) ([]harness.CheckResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "scheduler.validate",
		telemetry.AttrPipeline(pipelineName),
		telemetry.AttrDataSource(dataSource),
	)
	defer span.End()

	pl, ok := s.pipelines[pipelineName]
	if !ok {
		return nil, apperror.NewWithField(
			apperror.CodeUnknownPipeline, "pipeline not recognised", pipelineName,
		)
	}
	if err := s.checkProviders(pl); err != nil {
		return nil, err
	}
	if err := timeSpec.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidTimeSpec, "invalid time spec")
	}
	if err := spaceSpec.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidSpaceSpec, "invalid space spec")
	}

	if len(backingSources) > 0 {
		logger.Log.Debug("backing sources accepted but not merged",
			"backing_sources", backingSources,
		)
	}

	fetchStart := time.Now()
	cache, err := s.dsw.Fetch(
		ctx, dataSource, spaceSpec, timeSpec,
		pl.NumLeadingRequired, pl.NumTrailingRequired, extraSpec,
	)
	metrics.Get().RecordFetch(dataSource, err == nil, time.Since(fetchStart))
	if err != nil {
		logger.Log.Error("data switch failed to find data",
			"data_source", dataSource,
			"pipeline", pipelineName,
			"error", err,
		)
		return nil, err
	}
	metrics.Get().RecordCacheSize(dataSource, cache.NumStations())
	span.SetAttributes(
		telemetry.AttrStations(cache.NumStations()),
		telemetry.AttrSeriesLen(cache.SeriesLen()),
	)

	return s.Schedule(ctx, pl, cache)
}

// Schedule runs a pipeline's steps, in order, over a caller-supplied cache.
// It is exposed so embedders can bring their own cache. Cancellation takes
// effect between steps.
func (s *Scheduler) Schedule(
	ctx context.Context,
	pl *pipeline.Pipeline,
	cache *domain.DataCache,
) ([]harness.CheckResult, error) {
	if len(pl.Steps) == 0 {
		return nil, apperror.ErrEmptyPipeline
	}

	results := make([]harness.CheckResult, 0, len(pl.Steps))
	for _, step := range pl.Steps {
		if err := ctx.Err(); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "validation cancelled")
		}

		stepStart := time.Now()
		result, err := harness.RunCheck(step, cache)
		metrics.Get().RecordCheck(step.Check.Kind(), err == nil, time.Since(stepStart))
		if err != nil {
			logger.Log.Error("check failed, aborting pipeline",
				"step", step.Name,
				"check", step.Check.Kind(),
				"error", err,
			)
			return nil, err
		}
		for _, fs := range result.Results {
			for _, flag := range fs.Flags {
				metrics.Get().RecordFlag(step.Check.Kind(), flag.String())
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// checkProviders rejects pipelines containing check kinds that are
// declared in the model but have no provider configured in this build.
// They fail at validation time, before any data is fetched.
func (s *Scheduler) checkProviders(pl *pipeline.Pipeline) error {
	for _, step := range pl.Steps {
		switch step.Check.(type) {
		case pipeline.RangeCheckDynamicConf, pipeline.ModelConsistencyCheckConf:
			return apperror.Newf(
				apperror.CodeUnprovidedCheck,
				"step %q: check %q has no provider configured", step.Name, step.Check.Kind(),
			)
		}
	}
	return nil
}
