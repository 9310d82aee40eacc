package fao56

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want int
	}{
		{"first day", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"october non-leap", time.Date(2023, 10, 1, 14, 0, 0, 0, time.UTC), 274},
		{"october leap", time.Date(2024, 10, 1, 14, 0, 0, 0, time.UTC), 275},
		{"leap year end", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), 366},
		{"non-leap year end", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), 365},
		{"wall clock ignores zone", time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("UTC+10", 10*3600)), 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOfYear(tt.time))
		})
	}
}

func TestDayOfYearBoundariesFinite(t *testing.T) {
	lat := degToRad(45)
	for _, doy := range []int{1, 366} {
		decl := SolarDeclination(doy)
		ws := SunsetHourAngle(lat, decl)
		assert.False(t, math.IsNaN(decl) || math.IsInf(decl, 0), "declination for day %d", doy)
		for hour := 0; hour < 24; hour++ {
			ra := ExtraterrestrialRadiationHourly(lat, decl, ws, doy, hour)
			assert.False(t, math.IsNaN(ra) || math.IsInf(ra, 0), "Ra for day %d hour %d", doy, hour)
			assert.GreaterOrEqual(t, ra, 0.0)
		}
	}
}

func TestSunsetHourAngle(t *testing.T) {
	tests := []struct {
		name        string
		latitudeDeg float64
		declination float64
		want        float64
	}{
		{"equator", 0, 0.3, math.Pi / 2},
		{"equinox", 45, 0, math.Pi / 2},
		{"polar day clamps to pi", 80, 0.409, math.Pi},
		{"polar night clamps to zero", 80, -0.409, 0},
		{"southern polar day", -80, -0.409, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunsetHourAngle(degToRad(tt.latitudeDeg), tt.declination)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestExtraterrestrialRadiationPolar(t *testing.T) {
	lat := degToRad(80)

	winter := SolarDeclination(355)
	for hour := 0; hour < 24; hour++ {
		ra := ExtraterrestrialRadiationHourly(lat, winter, SunsetHourAngle(lat, winter), 355, hour)
		assert.Equal(t, 0.0, ra, "polar night hour %d", hour)
	}

	summer := SolarDeclination(172)
	ws := SunsetHourAngle(lat, summer)
	assert.Greater(t, ExtraterrestrialRadiationHourly(lat, summer, ws, 172, 0), 0.0)
	assert.Greater(t, ExtraterrestrialRadiationHourly(lat, summer, ws, 172, 12),
		ExtraterrestrialRadiationHourly(lat, summer, ws, 172, 0))
}

func TestSolarTimeAngle(t *testing.T) {
	assert.InDelta(t, 0, SolarTimeAngle(12), 1e-12)
	assert.InDelta(t, math.Pi/6, SolarTimeAngle(14), 1e-12)
	assert.InDelta(t, -math.Pi, SolarTimeAngle(0), 1e-12)
}

func TestAtmosphericPressure(t *testing.T) {
	assert.InDelta(t, 101.3, AtmosphericPressure(0), 1e-9)
	assert.InDelta(t, 101.2, AtmosphericPressure(8), 0.05)
	assert.InDelta(t, 81.8, AtmosphericPressure(1800), 0.1)
}
