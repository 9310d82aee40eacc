package simulation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParcel = Parcel{ID: "p-001", Latitude: 34.0, CropCoefficient: 0.8}

func hourlySeries(start time.Time, hours int) []Observation {
	obs := make([]Observation, hours)
	for i := range obs {
		ts := start.Add(time.Duration(i) * time.Hour)
		solar := 0.0
		if h := ts.Hour(); h >= 7 && h <= 18 {
			solar = 600 * math.Sin(math.Pi*float64(h-6)/13)
		}
		precip := 0.0
		if i%17 == 5 {
			precip = 1.2
		}
		obs[i] = Observation{
			Time:           ts,
			TempC:          18 + 8*math.Sin(2*math.Pi*float64(ts.Hour()-9)/24),
			RelHumidity:    60,
			WindSpeed:      2,
			SolarRadiation: solar,
			Pressure:       101.3,
			Precipitation:  precip,
		}
	}
	return obs
}

func TestRunHourlyEmpty(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var sim Simulator

	run, err := sim.RunHourly(testParcel, start, start.Add(23*time.Hour), nil, 12.5)
	require.NoError(t, err)
	assert.Empty(t, run.Metrics)
	assert.Equal(t, 12.5, run.FinalDepletion)

	// Observations outside the range are not selected either.
	obs := hourlySeries(start.AddDate(0, 0, 2), 24)
	run, err = sim.RunHourly(testParcel, start, start.Add(23*time.Hour), obs, 3)
	require.NoError(t, err)
	assert.Empty(t, run.Metrics)
	assert.Equal(t, 3.0, run.FinalDepletion)
}

func TestRunHourlyThreadsDepletion(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	obs := hourlySeries(start, 72)
	obs[30].Irrigation = 4

	run, err := NewSimulator(0).RunHourly(testParcel, start, start.Add(71*time.Hour), obs, 10)
	require.NoError(t, err)
	require.Len(t, run.Metrics, 72)

	prev := 10.0
	for i, m := range run.Metrics {
		assert.Equal(t, obs[i].Time, m.Time)
		assert.Equal(t, testParcel.ID, m.ParcelID)
		assert.GreaterOrEqual(t, m.ETo, 0.0)
		assert.InDelta(t, testParcel.CropCoefficient*m.ETo, m.ETc, 1e-12)
		assert.Equal(t, obs[i].Precipitation, m.EffectivePrecip)

		want := math.Max(0, prev-m.EffectivePrecip-obs[i].Irrigation+m.ETc)
		assert.InDelta(t, want, m.Depletion, 1e-12, "hour %d", i)
		assert.GreaterOrEqual(t, m.Depletion, 0.0)
		assert.Equal(t, 1.0, m.Ks)
		assert.Equal(t, m.Depletion, m.StressIndex)
		prev = m.Depletion
	}
	assert.Equal(t, prev, run.FinalDepletion)
	assert.Equal(t, 0, run.Gaps)
}

func TestRunHourlyInclusiveRange(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	obs := hourlySeries(start, 48)

	run, err := NewSimulator(0).RunHourly(testParcel, start.Add(5*time.Hour), start.Add(10*time.Hour), obs, 0)
	require.NoError(t, err)
	require.Len(t, run.Metrics, 6)
	assert.Equal(t, start.Add(5*time.Hour), run.Metrics[0].Time)
	assert.Equal(t, start.Add(10*time.Hour), run.Metrics[5].Time)
}

func TestRunHourlyIdempotent(t *testing.T) {
	start := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	obs := hourlySeries(start, 96)
	end := start.Add(95 * time.Hour)

	first, err := NewSimulator(0).RunHourly(testParcel, start, end, obs, 4)
	require.NoError(t, err)
	second, err := NewSimulator(0).RunHourly(testParcel, start, end, obs, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunHourlyCountsGaps(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	obs := hourlySeries(start, 24)
	obs = append(obs[:10], obs[13:]...)

	run, err := NewSimulator(0).RunHourly(testParcel, start, start.Add(23*time.Hour), obs, 0)
	require.NoError(t, err)
	assert.Len(t, run.Metrics, 21)
	assert.Equal(t, 1, run.Gaps)
}

func TestRunHourlyErrors(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(23 * time.Hour)

	tests := []struct {
		name   string
		parcel Parcel
		obs    func() []Observation
		seed   float64
		want   error
	}{
		{
			name:   "nan temperature",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[3].TempC = math.NaN()
				return o
			},
			want: ErrInvalidObservation,
		},
		{
			name:   "infinite wind",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[0].WindSpeed = math.Inf(1)
				return o
			},
			want: ErrInvalidObservation,
		},
		{
			name:   "humidity above 100",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[7].RelHumidity = 140
				return o
			},
			want: ErrInvalidObservation,
		},
		{
			name:   "zero pressure",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[2].Pressure = 0
				return o
			},
			want: ErrInvalidObservation,
		},
		{
			name:   "out of order",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[4], o[5] = o[5], o[4]
				return o
			},
			want: ErrOutOfOrder,
		},
		{
			name:   "duplicate hour",
			parcel: testParcel,
			obs: func() []Observation {
				o := hourlySeries(start, 24)
				o[6].Time = o[5].Time
				return o
			},
			want: ErrOutOfOrder,
		},
		{
			name:   "zero crop coefficient",
			parcel: Parcel{ID: "p", Latitude: 10},
			obs:    func() []Observation { return hourlySeries(start, 24) },
			want:   ErrInvalidParcel,
		},
		{
			name:   "latitude out of range",
			parcel: Parcel{ID: "p", Latitude: 91, CropCoefficient: 1},
			obs:    func() []Observation { return hourlySeries(start, 24) },
			want:   ErrInvalidParcel,
		},
		{
			name:   "negative seed",
			parcel: testParcel,
			obs:    func() []Observation { return hourlySeries(start, 24) },
			seed:   -1,
			want:   ErrInvalidSeed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewSimulator(0).RunHourly(tt.parcel, start, end, tt.obs(), tt.seed)
			assert.Nil(t, run)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestProjectDeficit(t *testing.T) {
	from := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	proj, err := ProjectDeficit(testParcel, from, 22.5, 7)
	require.NoError(t, err)
	require.Len(t, proj, 7)
	for i, p := range proj {
		assert.Equal(t, time.Date(2024, 6, 2+i, 0, 0, 0, 0, time.UTC), p.Date)
		assert.Equal(t, ScenarioNoIrrigation, p.Scenario)
		assert.Equal(t, testParcel.ID, p.ParcelID)
		assert.Equal(t, 22.5, p.DeficitMM)
	}

	_, err = ProjectDeficit(testParcel, from, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestSummarize(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	metrics := []HourlyMetric{
		{Time: start, ParcelID: "p", ETo: 0.1, ETc: 0.08, EffectivePrecip: 0, Depletion: 5, Ks: 1},
		{Time: start.Add(time.Hour), ParcelID: "p", ETo: 0.3, ETc: 0.24, EffectivePrecip: 2, Depletion: 3.24, Ks: 1},
		{Time: start.Add(2 * time.Hour), ParcelID: "p", ETo: 0.5, ETc: 0.4, EffectivePrecip: 0, Depletion: 3.64, Ks: 1},
	}

	s := Summarize(metrics)
	assert.Equal(t, "p", s.ParcelID)
	assert.Equal(t, 3, s.Hours)
	assert.Equal(t, start, s.Start)
	assert.Equal(t, start.Add(2*time.Hour), s.End)
	assert.InDelta(t, 0.9, s.TotalETo, 1e-12)
	assert.InDelta(t, 0.3, s.MeanETo, 1e-12)
	assert.InDelta(t, 0.72, s.TotalETc, 1e-12)
	assert.InDelta(t, 2, s.TotalPrecip, 1e-12)
	assert.InDelta(t, 5, s.MaxDepletion, 1e-12)
	assert.InDelta(t, 3.64, s.FinalDepletion, 1e-12)
	assert.Equal(t, 0, s.StressHours)

	assert.Equal(t, Summary{}, Summarize(nil))
}
