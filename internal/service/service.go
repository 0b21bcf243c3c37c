// Package service implements the Rove gRPC service over the scheduler.
//
// The service layer is thin on purpose: request decoding, scheduling, and
// the mapping of internal errors onto gRPC status codes. All QC semantics
// live below it.
package service

import (
	"context"
	"time"

	rovev1 "rove/gen/go/rove/v1"
	"rove/internal/converter"
	"rove/pkg/apperror"
	"rove/pkg/logger"
	"rove/pkg/metrics"
	"rove/pkg/scheduler"
)

// RoveService handles Validate requests.
type RoveService struct {
	rovev1.UnimplementedRoveServer

	scheduler *scheduler.Scheduler
}

// NewRoveService creates the service over a scheduler.
func NewRoveService(sched *scheduler.Scheduler) *RoveService {
	return &RoveService{scheduler: sched}
}

// Validate runs the named pipeline over the requested data and returns one
// CheckResult per step, in pipeline order. Errors map to status codes:
// bad arguments to InvalidArgument, unregistered sources to NotFound,
// failed checks to Aborted, everything else to Internal.
func (s *RoveService) Validate(ctx context.Context, req *rovev1.ValidateRequest) (*rovev1.ValidateResponse, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	timeSpec, err := converter.TimeSpecFromProto(req)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	spaceSpec, err := converter.SpaceSpecFromProto(req)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}

	log.Debug("validation requested",
		"pipeline", req.GetPipeline(),
		"data_source", req.GetDataSource(),
		"space_spec", spaceSpec.String(),
	)

	results, err := s.scheduler.ValidateDirect(
		ctx,
		req.GetDataSource(),
		req.GetBackingSources(),
		timeSpec,
		spaceSpec,
		req.GetPipeline(),
		req.GetExtraSpec(),
	)
	metrics.Get().RecordValidation(req.GetPipeline(), err == nil, time.Since(start))
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}

	pbResults, err := converter.CheckResultsToProto(results)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}

	return &rovev1.ValidateResponse{Results: pbResults}, nil
}
