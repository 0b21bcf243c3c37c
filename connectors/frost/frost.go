// Package frost implements a data connector against the Frost observation
// API. It translates space/time selections into Frost filter queries,
// decodes the observation and location payloads, and aligns the returned
// series onto the requested time axis.
//
// Station locations move rarely, so they are kept warm in an optional
// metadata cache between fetches.
package frost

import (
	"context"
	"net/http"
	"time"

	"rove/pkg/apperror"
	"rove/pkg/cache"
	"rove/pkg/config"
	"rove/pkg/domain"
)

// Credentials authenticate against the Frost API.
type Credentials struct {
	Username string
	Password string
}

// Frost fetches observation data over the Frost REST API.
type Frost struct {
	baseURL     string
	credentials Credentials
	client      *http.Client
	metaCache   cache.Cache // may be nil
}

// New creates a connector from configuration. metaCache may be nil to
// disable station-metadata caching.
func New(cfg config.FrostConfig, metaCache cache.Cache) *Frost {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Frost{
		baseURL: cfg.BaseURL,
		credentials: Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		client:    &http.Client{Timeout: timeout},
		metaCache: metaCache,
	}
}

// FetchData implements dataswitch.Connector. extraSpec names the element to
// fetch (e.g. "air_temperature") and is required.
func (f *Frost) FetchData(
	ctx context.Context,
	spaceSpec domain.SpaceSpec,
	timeSpec domain.TimeSpec,
	numLeading, numTrailing uint8,
	extraSpec string,
) (*domain.DataCache, error) {
	if extraSpec == "" {
		return nil, apperror.New(
			apperror.CodeInvalidExtraSpec, "frost requires an element id as extra_spec",
		)
	}

	axis := timeSpec.ContextAxis(numLeading, numTrailing)

	resp, err := f.fetch(ctx, spaceSpec, axis, extraSpec)
	if err != nil {
		return nil, err
	}

	return f.assemble(ctx, resp, spaceSpec, axis, numLeading, numTrailing, timeSpec)
}
