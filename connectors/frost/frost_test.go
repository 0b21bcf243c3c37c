package frost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rove/pkg/cache"
	"rove/pkg/config"
	"rove/pkg/domain"
)

// frostHandler fakes the filter endpoint with one station and a gap.
func frostHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Helper()

		query := r.URL.Query()
		assert.Equal(t, "air_temperature", query.Get("elementids"))
		assert.Equal(t, "18700", query.Get("stationids"))

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)

		body := map[string]any{
			"data": map[string]any{
				"tseries": []map[string]any{
					{
						"header": map[string]any{
							"id": map[string]any{"stationid": "18700"},
							"extra": map[string]any{
								"station": map[string]any{
									"location": []map[string]any{
										{
											"from": "2000-01-01T00:00:00Z",
											"to":   "2100-01-01T00:00:00Z",
											"value": map[string]any{
												"latitude":           "59.9423",
												"longitude":          "10.72",
												"elevation(masl/hs)": "94",
											},
										},
									},
								},
							},
						},
						"observations": []map[string]any{
							{"time": "2023-11-14T22:13:20Z", "body": map[string]any{"value": "3.2"}},
							// 22:18:20 is missing: a gap.
							{"time": "2023-11-14T22:23:20Z", "body": map[string]any{"value": "3.4"}},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}
}

func testSpec() domain.TimeSpec {
	// 1_700_000_000 = 2023-11-14T22:13:20Z
	return domain.NewTimeSpec(
		domain.Timestamp(1_700_000_000),
		domain.Timestamp(1_700_000_600),
		domain.Minutes(5),
	)
}

func TestFetchDataSingleStation(t *testing.T) {
	srv := httptest.NewServer(frostHandler(t))
	defer srv.Close()

	conn := New(config.FrostConfig{
		BaseURL:  srv.URL,
		Username: "user",
		Password: "pass",
		Timeout:  5 * time.Second,
	}, nil)

	dataCache, err := conn.FetchData(
		context.Background(), domain.One("18700"), testSpec(), 0, 0, "air_temperature",
	)
	require.NoError(t, err)
	require.NoError(t, dataCache.Validate())

	require.Equal(t, 1, dataCache.NumStations())
	series := dataCache.Series[0]
	assert.Equal(t, "18700", series.Tag)
	require.Len(t, series.Values, 3)
	assert.Equal(t, domain.Some(3.2), series.Values[0])
	assert.Equal(t, domain.None(), series.Values[1])
	assert.Equal(t, domain.Some(3.4), series.Values[2])

	assert.InDelta(t, 59.9423, float64(dataCache.Lats[0]), 1e-4)
	assert.InDelta(t, 94, float64(dataCache.Elevs[0]), 1e-6)
}

func TestFetchDataCachesStationMetadata(t *testing.T) {
	srv := httptest.NewServer(frostHandler(t))
	defer srv.Close()

	metaCache := cache.NewMemoryCache(nil)
	conn := New(config.FrostConfig{
		BaseURL: srv.URL, Username: "user", Password: "pass",
	}, metaCache)

	_, err := conn.FetchData(
		context.Background(), domain.One("18700"), testSpec(), 0, 0, "air_temperature",
	)
	require.NoError(t, err)

	stored, err := metaCache.Get(context.Background(), "frost:station:18700")
	require.NoError(t, err)
	var meta stationMeta
	require.NoError(t, json.Unmarshal(stored, &meta))
	assert.InDelta(t, 59.9423, float64(meta.Lat), 1e-4)
}

func TestFetchDataRequiresExtraSpec(t *testing.T) {
	conn := New(config.FrostConfig{BaseURL: "http://unused"}, nil)
	_, err := conn.FetchData(context.Background(), domain.All(), testSpec(), 0, 0, "")
	assert.Error(t, err)
}

func TestFetchDataUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	conn := New(config.FrostConfig{BaseURL: srv.URL}, nil)
	_, err := conn.FetchData(
		context.Background(), domain.One("18700"), testSpec(), 0, 0, "air_temperature",
	)
	assert.Error(t, err)
}

func TestAlignObservationsRejectsMisalignment(t *testing.T) {
	axis := []domain.Timestamp{0, 300, 600}
	obs := []frostObs{{Time: time.Unix(150, 0).UTC()}}
	obs[0].Body.Value = "1.0"

	_, err := alignObservations(obs, axis)
	assert.Error(t, err)
}
