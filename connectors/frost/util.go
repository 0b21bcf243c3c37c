package frost

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"rove/pkg/apperror"
	"rove/pkg/cache"
	"rove/pkg/domain"
	"rove/pkg/logger"
)

// stationMeta is the cached station geometry.
type stationMeta struct {
	Lat  float32 `json:"lat"`
	Lon  float32 `json:"lon"`
	Elev float32 `json:"elev"`
}

const metaCacheTTL = 10 * time.Minute

// stationLocation resolves a station's geometry: from the response's
// location history when present, falling back to the metadata cache for
// responses that omit it.
func (f *Frost) stationLocation(
	ctx context.Context,
	stationID string,
	locations []frostLocation,
	refTime time.Time,
) (stationMeta, error) {
	for _, loc := range locations {
		if refTime.Before(loc.From) || (!loc.To.IsZero() && refTime.After(loc.To)) {
			continue
		}
		meta, err := parseLatLonElev(loc.Value)
		if err != nil {
			return stationMeta{}, err
		}
		f.storeMeta(ctx, stationID, meta)
		return meta, nil
	}

	if meta, ok := f.loadMeta(ctx, stationID); ok {
		return meta, nil
	}

	return stationMeta{}, apperror.Newf(
		apperror.CodeFetchIO, "failed to find location for station %q", stationID,
	)
}

func parseLatLonElev(v frostLatLonElev) (stationMeta, error) {
	lat, err := strconv.ParseFloat(v.Latitude, 64)
	if err != nil {
		return stationMeta{}, apperror.Wrapf(
			err, apperror.CodeFetchIO, "unparseable latitude %q", v.Latitude,
		)
	}
	lon, err := strconv.ParseFloat(v.Longitude, 64)
	if err != nil {
		return stationMeta{}, apperror.Wrapf(
			err, apperror.CodeFetchIO, "unparseable longitude %q", v.Longitude,
		)
	}
	elev, err := strconv.ParseFloat(v.Elevation, 64)
	if err != nil {
		return stationMeta{}, apperror.Wrapf(
			err, apperror.CodeFetchIO, "unparseable elevation %q", v.Elevation,
		)
	}
	return stationMeta{Lat: float32(lat), Lon: float32(lon), Elev: float32(elev)}, nil
}

func metaKey(stationID string) string {
	return "frost:station:" + stationID
}

func (f *Frost) storeMeta(ctx context.Context, stationID string, meta stationMeta) {
	if f.metaCache == nil {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := f.metaCache.Set(ctx, metaKey(stationID), data, metaCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache station metadata", "station", stationID, "error", err)
	}
}

func (f *Frost) loadMeta(ctx context.Context, stationID string) (stationMeta, bool) {
	if f.metaCache == nil {
		return stationMeta{}, false
	}
	data, err := f.metaCache.Get(ctx, metaKey(stationID))
	if err != nil {
		if err != cache.ErrKeyNotFound {
			logger.Log.Warn("Station metadata cache lookup failed", "station", stationID, "error", err)
		}
		return stationMeta{}, false
	}
	var meta stationMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return stationMeta{}, false
	}
	return meta, true
}
