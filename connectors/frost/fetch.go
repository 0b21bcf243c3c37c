package frost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rove/pkg/apperror"
	"rove/pkg/domain"
)

// Wire shapes of the Frost filter API. Numeric fields arrive as strings.

type frostResponse struct {
	Data struct {
		Tseries []frostTseries `json:"tseries"`
	} `json:"data"`
}

type frostTseries struct {
	Header struct {
		ID struct {
			StationID string `json:"stationid"`
		} `json:"id"`
		Extra struct {
			Station struct {
				Location []frostLocation `json:"location"`
			} `json:"station"`
		} `json:"extra"`
	} `json:"header"`
	Observations []frostObs `json:"observations"`
}

type frostObs struct {
	Time time.Time `json:"time"`
	Body struct {
		Value string `json:"value"`
	} `json:"body"`
}

type frostLocation struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	Value frostLatLonElev `json:"value"`
}

type frostLatLonElev struct {
	Elevation string `json:"elevation(masl/hs)"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// fetch issues the filter query and decodes the response body.
func (f *Frost) fetch(
	ctx context.Context,
	spaceSpec domain.SpaceSpec,
	axis []domain.Timestamp,
	elementID string,
) (*frostResponse, error) {
	query := url.Values{}
	query.Set("elementids", elementID)
	query.Set("incobs", "true")
	query.Set("time", fmt.Sprintf(
		"%s/%s",
		axis[0].Time().Format(time.RFC3339),
		axis[len(axis)-1].Time().Format(time.RFC3339),
	))
	if spaceSpec.Kind == domain.SpaceOne {
		query.Set("stationids", spaceSpec.DataID)
	}

	reqURL := fmt.Sprintf("%s/api/v1/obs/met.no/filter/get?%s", f.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "building frost request")
	}
	req.SetBasicAuth(f.credentials.Username, f.credentials.Password)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "fetching data from frost")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Newf(
			apperror.CodeFetchIO, "frost returned status %d", resp.StatusCode,
		)
	}

	var decoded frostResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "decoding frost response")
	}
	return &decoded, nil
}

// assemble turns a decoded response into a validated cache.
func (f *Frost) assemble(
	ctx context.Context,
	resp *frostResponse,
	spaceSpec domain.SpaceSpec,
	axis []domain.Timestamp,
	numLeading, numTrailing uint8,
	timeSpec domain.TimeSpec,
) (*domain.DataCache, error) {
	refTime := timeSpec.Timerange.Start.Time()

	var (
		series []domain.Timeseries
		lats   []float32
		lons   []float32
		elevs  []float32
	)

	for i := range resp.Data.Tseries {
		ts := &resp.Data.Tseries[i]
		stationID := ts.Header.ID.StationID
		if stationID == "" {
			return nil, apperror.New(
				apperror.CodeFetchIO, "failed to find station id in response header",
			)
		}

		loc, err := f.stationLocation(ctx, stationID, ts.Header.Extra.Station.Location, refTime)
		if err != nil {
			return nil, err
		}

		if spaceSpec.Kind == domain.SpacePolygon &&
			!spaceSpec.Polygon.Contains(domain.GeoPoint{Lat: loc.Lat, Lon: loc.Lon}) {
			continue
		}

		values, err := alignObservations(ts.Observations, axis)
		if err != nil {
			return nil, err
		}

		series = append(series, domain.Timeseries{Tag: stationID, Values: values})
		lats = append(lats, loc.Lat)
		lons = append(lons, loc.Lon)
		elevs = append(elevs, loc.Elev)
	}

	if spaceSpec.Kind == domain.SpaceOne && len(series) != 1 {
		return nil, apperror.Newf(
			apperror.CodeFetchIO, "expected 1 station for %q, frost returned %d",
			spaceSpec.DataID, len(series),
		)
	}

	return domain.NewDataCache(
		series, lats, lons, elevs,
		axis[0],
		timeSpec.TimeResolution,
		numLeading, numTrailing,
	), nil
}

// alignObservations places observations onto the time axis. Times not on
// the axis indicate a resolution mismatch and fail the fetch; axis steps
// without an observation become gaps.
func alignObservations(obs []frostObs, axis []domain.Timestamp) ([]domain.Obs, error) {
	byTime := make(map[int64]float64, len(obs))
	onAxis := make(map[int64]bool, len(axis))
	for _, t := range axis {
		onAxis[int64(t)] = true
	}

	for _, o := range obs {
		unix := o.Time.Unix()
		if !onAxis[unix] {
			return nil, apperror.Newf(
				apperror.CodeFetchIO,
				"observation at %s does not align with the requested resolution",
				o.Time.Format(time.RFC3339),
			)
		}
		v, err := strconv.ParseFloat(o.Body.Value, 64)
		if err != nil {
			return nil, apperror.Wrapf(
				err, apperror.CodeFetchIO, "unparseable observation value %q", o.Body.Value,
			)
		}
		byTime[unix] = v
	}

	values := make([]domain.Obs, len(axis))
	for i, t := range axis {
		if v, ok := byTime[int64(t)]; ok {
			values[i] = domain.Some(float32(v))
		} else {
			values[i] = domain.None()
		}
	}
	return values, nil
}
