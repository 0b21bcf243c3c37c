package lard

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"rove/pkg/apperror"
	"rove/pkg/domain"
)

const (
	seriesQuery = `
		SELECT obstime, obsvalue
		FROM observations
		WHERE station_id = $1 AND element_id = $2 AND obstime BETWEEN $3 AND $4
		ORDER BY obstime`

	stationQuery = `
		SELECT lat, lon, elevation
		FROM stations
		WHERE station_id = $1`

	regionQuery = `
		SELECT s.station_id, s.lat, s.lon, s.elevation, o.obstime, o.obsvalue
		FROM observations o
		JOIN stations s USING (station_id)
		WHERE o.element_id = $1 AND o.obstime BETWEEN $2 AND $3
		ORDER BY s.station_id, o.obstime`
)

// fetchOne fetches a single station's series plus its geometry.
func (l *Lard) fetchOne(
	ctx context.Context,
	stationID, elementID string,
	axis []domain.Timestamp,
	timeSpec domain.TimeSpec,
	numLeading, numTrailing uint8,
) (*domain.DataCache, error) {
	var lat, lon, elev float32
	err := l.db.QueryRow(ctx, stationQuery, stationID).Scan(&lat, &lon, &elev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.Newf(
			apperror.CodeInvalidExtraSpec, "station %q not found in lard", stationID,
		)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "querying lard station")
	}

	rows, err := l.db.Query(
		ctx, seriesQuery,
		stationID, elementID, axis[0].Time(), axis[len(axis)-1].Time(),
	)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "querying lard observations")
	}
	defer rows.Close()

	byTime := make(map[int64]float64)
	for rows.Next() {
		var obstime time.Time
		var value *float64
		if err := rows.Scan(&obstime, &value); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeFetchIO, "scanning lard observation")
		}
		if value != nil {
			byTime[obstime.Unix()] = *value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "reading lard observations")
	}

	return domain.NewDataCache(
		[]domain.Timeseries{{Tag: stationID, Values: onAxis(byTime, axis)}},
		[]float32{lat}, []float32{lon}, []float32{elev},
		axis[0],
		timeSpec.TimeResolution,
		numLeading, numTrailing,
	), nil
}

// fetchRegion fetches every station carrying the element in the time
// window, optionally filtered by a polygon.
func (l *Lard) fetchRegion(
	ctx context.Context,
	spaceSpec domain.SpaceSpec,
	elementID string,
	axis []domain.Timestamp,
	timeSpec domain.TimeSpec,
	numLeading, numTrailing uint8,
) (*domain.DataCache, error) {
	rows, err := l.db.Query(
		ctx, regionQuery,
		elementID, axis[0].Time(), axis[len(axis)-1].Time(),
	)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "querying lard region")
	}
	defer rows.Close()

	type station struct {
		lat, lon, elev float32
		byTime         map[int64]float64
	}
	var order []string
	stations := make(map[string]*station)

	for rows.Next() {
		var (
			id             string
			lat, lon, elev float32
			obstime        time.Time
			value          *float64
		)
		if err := rows.Scan(&id, &lat, &lon, &elev, &obstime, &value); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeFetchIO, "scanning lard region row")
		}

		st, ok := stations[id]
		if !ok {
			if spaceSpec.Kind == domain.SpacePolygon &&
				!spaceSpec.Polygon.Contains(domain.GeoPoint{Lat: lat, Lon: lon}) {
				stations[id] = nil // remembered as filtered out
				continue
			}
			st = &station{lat: lat, lon: lon, elev: elev, byTime: make(map[int64]float64)}
			stations[id] = st
			order = append(order, id)
		}
		if st == nil {
			continue
		}
		if value != nil {
			st.byTime[obstime.Unix()] = *value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeFetchIO, "reading lard region")
	}

	series := make([]domain.Timeseries, 0, len(order))
	lats := make([]float32, 0, len(order))
	lons := make([]float32, 0, len(order))
	elevs := make([]float32, 0, len(order))
	for _, id := range order {
		st := stations[id]
		series = append(series, domain.Timeseries{Tag: id, Values: onAxis(st.byTime, axis)})
		lats = append(lats, st.lat)
		lons = append(lons, st.lon)
		elevs = append(elevs, st.elev)
	}

	return domain.NewDataCache(
		series, lats, lons, elevs,
		axis[0],
		timeSpec.TimeResolution,
		numLeading, numTrailing,
	), nil
}

// onAxis aligns fetched values onto the time axis, leaving gaps where no
// row matched a step.
func onAxis(byTime map[int64]float64, axis []domain.Timestamp) []domain.Obs {
	values := make([]domain.Obs, len(axis))
	for i, t := range axis {
		if v, ok := byTime[int64(t)]; ok {
			values[i] = domain.Some(float32(v))
		} else {
			values[i] = domain.None()
		}
	}
	return values
}
