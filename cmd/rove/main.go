// Package main is the entry point for the rove QC service.
//
// rove runs declarative quality-control pipelines over meteorological
// observations fetched from pluggable data sources, and serves the results
// over gRPC.
//
// # Service Overview
//
// The service exposes a single RPC:
//   - rove.v1.Rove/Validate runs a named check pipeline over a
//     space/time selection of observations from one data source
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                     gRPC Transport Layer                    │
//	│  Interceptors: recovery, logging, metrics, rate-limit      │
//	├─────────────────────────────────────────────────────────────┤
//	│                      Service Layer                          │
//	│  (internal/service) request decoding, status mapping        │
//	├─────────────────────────────────────────────────────────────┤
//	│                      Scheduler                              │
//	│  (pkg/scheduler) resolve pipeline -> fetch -> run steps     │
//	├─────────────────────────────────────────────────────────────┤
//	│              Harness and Check Kernels                      │
//	│  (pkg/harness, pkg/checks) dispatch, series/spatial tests   │
//	├─────────────────────────────────────────────────────────────┤
//	│                  Data Switch and Connectors                 │
//	│  (pkg/dataswitch, connectors/*) frost, lard, testdata       │
//	└─────────────────────────────────────────────────────────────┘
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: ROVE_)
//  2. Config files (config.yaml, config/config.yaml, /etc/rove/config.yaml)
//  3. Default values
//
// Key configuration options (environment variable format):
//
//	# Application
//	ROVE_APP_NAME            - Service name (default: rove)
//	ROVE_APP_ENVIRONMENT     - Environment: development, staging, production
//
//	# gRPC Server
//	ROVE_GRPC_PORT           - gRPC server port (default: 1337)
//
//	# Logging
//	ROVE_LOG_LEVEL           - Log level: debug, info, warn, error
//	ROVE_LOG_FORMAT          - Log format: json, text
//
//	# Pipelines
//	ROVE_PIPELINES_DIR       - Directory of pipeline TOML files
//
//	# Metrics / Tracing
//	ROVE_METRICS_ENABLED     - Enable Prometheus metrics (default: true)
//	ROVE_METRICS_PORT        - Metrics HTTP port (default: 9090)
//	ROVE_TRACING_ENABLED     - Enable OpenTelemetry tracing (default: false)
//	ROVE_TRACING_ENDPOINT    - OTLP endpoint (default: localhost:4317)
//
// Data sources are enabled individually under sources.*; see
// pkg/config for the full schema.
//
// # Health Checks
//
// The service implements the standard gRPC health check protocol
// (grpc.health.v1.Health). gRPC reflection is enabled in development.
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM trigger graceful shutdown: health flips to
// NOT_SERVING, in-flight validations finish (up to 30 seconds, after which
// the server is stopped forcibly), then limiter and telemetry resources are
// released.
package main

import (
	"context"
	"fmt"
	"os"

	"rove/connectors/frost"
	"rove/connectors/lard"
	"rove/connectors/testdata"
	rovev1 "rove/gen/go/rove/v1"
	"rove/internal/service"
	"rove/pkg/cache"
	"rove/pkg/config"
	"rove/pkg/dataswitch"
	"rove/pkg/logger"
	"rove/pkg/metrics"
	"rove/pkg/pipeline"
	"rove/pkg/scheduler"
	"rove/pkg/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rove: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.ServiceInfo.WithLabelValues(cfg.App.Version, cfg.App.Environment).Set(1)

	pipelines, err := pipeline.Load(cfg.Pipelines.Dir)
	if err != nil {
		return fmt.Errorf("loading pipelines: %w", err)
	}
	logger.Log.Info("Pipelines loaded", "count", len(pipelines), "dir", cfg.Pipelines.Dir)

	dsw, cleanup, err := buildDataSwitch(cfg)
	if err != nil {
		return fmt.Errorf("building data switch: %w", err)
	}
	defer cleanup()
	logger.Log.Info("Data switch ready", "sources", dsw.Sources())

	sched := scheduler.New(pipelines, dsw)

	srv := server.New(cfg)
	rovev1.RegisterRoveServer(srv.GetEngine(), service.NewRoveService(sched))

	return srv.Run()
}

// buildDataSwitch registers every enabled connector. The returned cleanup
// releases connector-held resources (pools, caches).
func buildDataSwitch(cfg *config.Config) (*dataswitch.DataSwitch, func(), error) {
	dsw := dataswitch.New()
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Sources.Frost.Enabled {
		var metaCache cache.Cache
		if cfg.Cache.Enabled {
			var err error
			metaCache, err = cache.New(&cache.Options{
				Backend:       cfg.Cache.Driver,
				DefaultTTL:    cfg.Cache.DefaultTTL,
				MaxEntries:    cfg.Cache.MaxEntries,
				RedisAddr:     cfg.Cache.Address(),
				RedisPassword: cfg.Cache.Password,
				RedisDB:       cfg.Cache.DB,
			})
			if err != nil {
				logger.Log.Warn("Station metadata cache unavailable, continuing without it", "error", err)
			} else {
				closers = append(closers, func() { _ = metaCache.Close() })
			}
		}
		if err := dsw.Register("frost", frost.New(cfg.Sources.Frost, metaCache)); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	if cfg.Sources.Lard.Enabled {
		conn, err := lard.New(context.Background(), cfg.Sources.Lard)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, conn.Close)
		if err := dsw.Register("lard", conn); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	if cfg.Sources.TestData.Enabled {
		err := dsw.Register("test", &testdata.Source{
			DataLenSingle:  3,
			DataLenSeries:  1000,
			DataLenSpatial: 1000,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return dsw, cleanup, nil
}
