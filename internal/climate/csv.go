// Package climate reads hourly climate series and loads them into the
// catalog. The CSV columns follow NASA POWER hourly parameter names.
package climate

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/fao56"
)

// fillValue marks a missing value in NASA POWER exports
const fillValue = -999

var (
	// ErrMissingPressure is returned when a row has no surface pressure and
	// no elevation was supplied to estimate it.
	ErrMissingPressure = errors.New("missing surface pressure")
	// ErrMissingValue is returned when a required column holds a fill value.
	ErrMissingValue = errors.New("missing value")
)

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Record is one CSV row
type Record struct {
	Timestamp  string  `csv:"timestamp"`
	T2M        float64 `csv:"T2M"`
	RH2M       float64 `csv:"RH2M"`
	WS2M       float64 `csv:"WS2M"`
	AllSkySW   float64 `csv:"ALLSKY_SFC_SW_DWN"`
	Precip     float64 `csv:"PRECTOTCORR"`
	Pressure   string  `csv:"PS"`
	Irrigation string  `csv:"IRRIGATION"`
}

// ReadCSV decodes every row of an hourly climate CSV
func ReadCSV(r io.Reader) ([]Record, error) {
	var rows []*Record
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decoding climate CSV: %w", err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = *row
	}
	return records, nil
}

// ParseTime reads a civil timestamp. Zone offsets are dropped and the
// wall-clock fields kept.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Observation converts the row. When the PS column is empty or a fill
// value, pressure is estimated from elevation; a nil elevation makes that an
// error.
func (r Record) Observation(elevation *float64) (simulation.Observation, error) {
	ts, err := ParseTime(r.Timestamp)
	if err != nil {
		return simulation.Observation{}, err
	}

	for name, v := range map[string]float64{
		"T2M":               r.T2M,
		"RH2M":              r.RH2M,
		"WS2M":              r.WS2M,
		"ALLSKY_SFC_SW_DWN": r.AllSkySW,
		"PRECTOTCORR":       r.Precip,
	} {
		if v == fillValue {
			return simulation.Observation{}, fmt.Errorf("%s at %s: %w", name, r.Timestamp, ErrMissingValue)
		}
	}

	pressure, ok, err := parseOptional(r.Pressure)
	if err != nil {
		return simulation.Observation{}, fmt.Errorf("PS at %s: %w", r.Timestamp, err)
	}
	if !ok {
		if elevation == nil {
			return simulation.Observation{}, fmt.Errorf("at %s: %w", r.Timestamp, ErrMissingPressure)
		}
		pressure = fao56.AtmosphericPressure(*elevation)
	}

	irrigation, _, err := parseOptional(r.Irrigation)
	if err != nil {
		return simulation.Observation{}, fmt.Errorf("IRRIGATION at %s: %w", r.Timestamp, err)
	}

	return simulation.Observation{
		Time:           ts,
		TempC:          r.T2M,
		RelHumidity:    r.RH2M,
		WindSpeed:      r.WS2M,
		SolarRadiation: r.AllSkySW,
		Pressure:       pressure,
		Precipitation:  r.Precip,
		Irrigation:     irrigation,
	}, nil
}

func parseOptional(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if v == fillValue || math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}
