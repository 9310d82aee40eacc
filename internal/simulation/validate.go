package simulation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidObservation means a climate field is missing, non-finite or out of range.
	ErrInvalidObservation = errors.New("invalid climate observation")
	// ErrInvalidParcel means the parcel latitude or crop coefficient is unusable.
	ErrInvalidParcel = errors.New("invalid parcel")
	// ErrInvalidSeed means the seed depletion is negative or non-finite.
	ErrInvalidSeed = errors.New("invalid seed depletion")
	// ErrOutOfOrder means observations are not strictly increasing in time.
	ErrOutOfOrder = errors.New("observations out of chronological order")
	// ErrInvalidHorizon means a projection was requested for fewer than one day.
	ErrInvalidHorizon = errors.New("projection horizon must be at least one day")
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the parcel constants.
func (p Parcel) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidParcel)
	}
	if !finite(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w %s: latitude %v", ErrInvalidParcel, p.ID, p.Latitude)
	}
	if !finite(p.CropCoefficient) || p.CropCoefficient <= 0 {
		return fmt.Errorf("%w %s: crop coefficient %v", ErrInvalidParcel, p.ID, p.CropCoefficient)
	}
	return nil
}

// Validate checks that every field is finite and physically plausible.
func (o Observation) Validate() error {
	fields := []struct {
		name string
		v    float64
		ok   func(float64) bool
	}{
		{"temperature", o.TempC, func(v float64) bool { return v > -90 && v < 70 }},
		{"relative humidity", o.RelHumidity, func(v float64) bool { return v >= 0 && v <= 100 }},
		{"wind speed", o.WindSpeed, func(v float64) bool { return v >= 0 }},
		{"solar radiation", o.SolarRadiation, func(v float64) bool { return v >= 0 }},
		{"pressure", o.Pressure, func(v float64) bool { return v > 0 }},
		{"precipitation", o.Precipitation, func(v float64) bool { return v >= 0 }},
		{"irrigation", o.Irrigation, func(v float64) bool { return v >= 0 }},
	}

	if o.Time.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidObservation)
	}
	for _, f := range fields {
		if !finite(f.v) || !f.ok(f.v) {
			return fmt.Errorf("%w at %s: %s = %v", ErrInvalidObservation, o.Time.Format(timeLayout), f.name, f.v)
		}
	}
	return nil
}

func validateSeed(seed float64) error {
	if !finite(seed) || seed < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, seed)
	}
	return nil
}
