// Package dataswitch routes fetch requests to data connectors.
//
// A Connector is how the engine reaches a data source: anything that can
// produce a domain.DataCache for a space/time selection (a REST client, a
// database reader, a file store) implements it and registers under a
// source name. The DataSwitch holds the registry and dispatches by name.
package dataswitch

import (
	"context"
	"fmt"

	"rove/pkg/apperror"
	"rove/pkg/domain"
)

// Connector fetches observation data from one upstream source.
//
// Implementations must uphold the cache contract: the returned cache passes
// domain.DataCache.Validate, its payload window is aligned to the requested
// timerange at the requested resolution, SpaceOne yields exactly one series
// tagged with the requested id, and gaps are absent observations rather
// than sentinel numbers. Connectors must be safe for concurrent use; the
// switch holds them by shared reference. On cancellation of ctx a connector
// must abort outstanding I/O and release resources.
type Connector interface {
	// FetchData returns a fresh cache covering the space/time selection,
	// widened by numLeading and numTrailing context points on each side.
	// extraSpec is an opaque, connector-specific refinement (e.g. an
	// element id like "air_temperature"); connectors that cannot parse it
	// report apperror.CodeInvalidExtraSpec.
	FetchData(
		ctx context.Context,
		spaceSpec domain.SpaceSpec,
		timeSpec domain.TimeSpec,
		numLeading, numTrailing uint8,
		extraSpec string,
	) (*domain.DataCache, error)
}

// DataSwitch maps source names to connectors. Registration happens at
// construction time; afterwards the switch is read-only and safe for
// concurrent fetches.
type DataSwitch struct {
	sources map[string]Connector
}

// New creates an empty data switch.
func New() *DataSwitch {
	return &DataSwitch{sources: make(map[string]Connector)}
}

// Register adds a connector under a source name. Registering the same name
// twice is an error rather than a silent override.
func (ds *DataSwitch) Register(name string, conn Connector) error {
	if conn == nil {
		return apperror.Newf(apperror.CodeInvalidArgument, "connector for %q is nil", name)
	}
	if _, ok := ds.sources[name]; ok {
		return apperror.Newf(apperror.CodeDuplicateDataSource, "data source %q already registered", name)
	}
	ds.sources[name] = conn
	return nil
}

// MustRegister is Register for wiring code where a duplicate is a
// programming error.
func (ds *DataSwitch) MustRegister(name string, conn Connector) {
	if err := ds.Register(name, conn); err != nil {
		panic(fmt.Sprintf("dataswitch: %v", err))
	}
}

// Sources lists the registered source names, in no particular order.
func (ds *DataSwitch) Sources() []string {
	names := make([]string, 0, len(ds.sources))
	for name := range ds.sources {
		names = append(names, name)
	}
	return names
}

// Has reports whether a source name is registered.
func (ds *DataSwitch) Has(name string) bool {
	_, ok := ds.sources[name]
	return ok
}

// Fetch looks up the named connector and forwards the request to it
// verbatim. An unregistered name fails without invoking any connector.
func (ds *DataSwitch) Fetch(
	ctx context.Context,
	sourceName string,
	spaceSpec domain.SpaceSpec,
	timeSpec domain.TimeSpec,
	numLeading, numTrailing uint8,
	extraSpec string,
) (*domain.DataCache, error) {
	conn, ok := ds.sources[sourceName]
	if !ok {
		return nil, apperror.Newf(
			apperror.CodeUnknownDataSource, "data source %q not registered", sourceName,
		)
	}

	cache, err := conn.FetchData(ctx, spaceSpec, timeSpec, numLeading, numTrailing, extraSpec)
	if err != nil {
		return nil, err
	}
	if err := cache.Validate(); err != nil {
		return nil, apperror.Wrapf(
			err, apperror.CodeInvalidCache, "connector %q returned an invalid cache", sourceName,
		)
	}
	return cache, nil
}
