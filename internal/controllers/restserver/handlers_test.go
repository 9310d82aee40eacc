package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/config"
)

var seriesStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	c, err := catalog.Open(config.StorageData{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Migrate(ctx))

	require.NoError(t, c.SyncParcels(ctx, []config.ParcelData{
		{ID: "p-001", Name: "north", Latitude: 34, CropCoefficient: 0.8},
		{ID: "p-002", Name: "south", Latitude: 34, CropCoefficient: 1.1},
	}))

	metrics := make([]simulation.HourlyMetric, 48)
	for i := range metrics {
		metrics[i] = simulation.HourlyMetric{
			Time:        seriesStart.Add(time.Duration(i) * time.Hour),
			ParcelID:    "p-001",
			ETo:         0.25,
			ETc:         0.2,
			Depletion:   float64(i) * 0.2,
			Ks:          1,
			StressIndex: float64(i) * 0.2,
		}
	}
	require.NoError(t, c.UpsertMetrics(ctx, metrics))
	require.NoError(t, c.UpsertProjections(ctx, []simulation.DeficitProjection{
		{Date: seriesStart.AddDate(0, 0, 2), ParcelID: "p-001", Scenario: simulation.ScenarioNoIrrigation, DeficitMM: 9.4},
	}))

	ctrl, err := NewController(ctx, &sync.WaitGroup{}, c, config.RESTServerData{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", ctrl.Server.Addr)
	return ctrl.Server.Handler
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetParcels(t *testing.T) {
	h := newTestServer(t)
	rec := get(t, h, "/parcels")
	require.Equal(t, http.StatusOK, rec.Code)

	var parcels []config.ParcelData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parcels))
	require.Len(t, parcels, 2)
	assert.Equal(t, "p-001", parcels[0].ID)
	assert.Equal(t, 1.1, parcels[1].CropCoefficient)
}

func TestGetMetrics(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantRows int
	}{
		{"explicit hour range", "/parcels/p-001/metrics?start=2024-06-01T00&end=2024-06-01T05", http.StatusOK, 6},
		{"rfc3339 range", "/parcels/p-001/metrics?start=2024-06-01T10:00:00Z&end=2024-06-01T11:00:00Z", http.StatusOK, 2},
		{"default window", "/parcels/p-001/metrics", http.StatusOK, 24},
		{"unknown parcel", "/parcels/nope/metrics", http.StatusNotFound, 0},
		{"no metrics yet", "/parcels/p-002/metrics", http.StatusNotFound, 0},
		{"bad time", "/parcels/p-001/metrics?start=yesterday&end=2024-06-01T05", http.StatusBadRequest, 0},
		{"only start", "/parcels/p-001/metrics?start=2024-06-01T00", http.StatusBadRequest, 0},
		{"reversed", "/parcels/p-001/metrics?start=2024-06-02T00&end=2024-06-01T00", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var metrics []simulation.HourlyMetric
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
			assert.Len(t, metrics, tt.wantRows)
		})
	}
}

func TestGetMetricsMsgPack(t *testing.T) {
	h := newTestServer(t)
	rec := get(t, h, "/parcels/p-001/metrics?start=2024-06-01T00&end=2024-06-01T02&format=msgpack")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	var rows []map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "p-001", rows[0]["parcel_id"])
	assert.Equal(t, 0.4, rows[2]["depletion_mm"])
}

func TestGetDepletion(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/parcels/p-001/depletion")
	require.Equal(t, http.StatusOK, rec.Code)
	var dep DepletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dep))
	assert.Equal(t, "p-001", dep.ParcelID)
	assert.InDelta(t, 47*0.2, dep.DepletionMM, 1e-9)
	assert.True(t, seriesStart.Add(47*time.Hour).Equal(dep.Time))

	assert.Equal(t, http.StatusNotFound, get(t, h, "/parcels/p-002/depletion").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/parcels/nope/depletion").Code)
}

func TestGetProjection(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/parcels/p-001/projection")
	require.Equal(t, http.StatusOK, rec.Code)
	var proj []simulation.DeficitProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proj))
	require.Len(t, proj, 1)
	assert.Equal(t, 9.4, proj[0].DeficitMM)
	assert.Equal(t, simulation.ScenarioNoIrrigation, proj[0].Scenario)

	rec = get(t, h, "/parcels/p-002/projection")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetSummary(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/parcels/p-001/summary?start=2024-06-01T00&end=2024-06-01T09")
	require.Equal(t, http.StatusOK, rec.Code)
	var s simulation.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "p-001", s.ParcelID)
	assert.Equal(t, 10, s.Hours)
	assert.InDelta(t, 2.5, s.TotalETo, 1e-9)
	assert.InDelta(t, 1.8, s.MaxDepletion, 1e-9)
	assert.Equal(t, 0, s.StressHours)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t)
	rec := get(t, h, "/weather")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such endpoint")
}
