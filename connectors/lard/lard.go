// Package lard implements a data connector against a lard observation
// database: a Postgres schema with a stations table (geometry) and an
// observations table (one row per station, element and obstime).
//
// The connector is a read-only client of an externally-owned schema; it
// runs no migrations.
package lard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rove/pkg/apperror"
	"rove/pkg/config"
	"rove/pkg/domain"
	"rove/pkg/logger"
)

// querier is the subset of pgxpool.Pool the connector uses; tests
// substitute a mock.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Lard fetches observation data from a lard Postgres database.
type Lard struct {
	db   querier
	pool *pgxpool.Pool // nil when constructed over a mock
}

// New connects a pool to the configured database and verifies the
// connection.
func New(ctx context.Context, cfg config.LardConfig) (*Lard, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing lard dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating lard pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging lard: %w", err)
	}

	logger.Log.Info("Connected to lard",
		"host", cfg.Host,
		"database", cfg.Database,
		"max_conns", cfg.MaxConns,
	)
	return &Lard{db: pool, pool: pool}, nil
}

// NewWithDB wraps an existing querier; used by tests.
func NewWithDB(db querier) *Lard {
	return &Lard{db: db}
}

// Close releases the connection pool.
func (l *Lard) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

// FetchData implements dataswitch.Connector. extraSpec names the element to
// fetch and is required.
func (l *Lard) FetchData(
	ctx context.Context,
	spaceSpec domain.SpaceSpec,
	timeSpec domain.TimeSpec,
	numLeading, numTrailing uint8,
	extraSpec string,
) (*domain.DataCache, error) {
	if extraSpec == "" {
		return nil, apperror.New(
			apperror.CodeInvalidExtraSpec, "lard requires an element id as extra_spec",
		)
	}

	axis := timeSpec.ContextAxis(numLeading, numTrailing)

	switch spaceSpec.Kind {
	case domain.SpaceOne:
		return l.fetchOne(ctx, spaceSpec.DataID, extraSpec, axis, timeSpec, numLeading, numTrailing)
	case domain.SpaceAll, domain.SpacePolygon:
		return l.fetchRegion(ctx, spaceSpec, extraSpec, axis, timeSpec, numLeading, numTrailing)
	default:
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "unknown space spec kind")
	}
}
