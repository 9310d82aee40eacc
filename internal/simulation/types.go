// Package simulation drives the FAO-56 equations across an hourly climate
// series for one parcel, threading root-zone depletion from hour to hour.
package simulation

import "time"

// Observation is one hour of climate data for a parcel. Time is civil,
// solar-local time; its wall-clock fields are read as-is.
type Observation struct {
	Time           time.Time `json:"ts"`
	TempC          float64   `json:"temp_c"`
	RelHumidity    float64   `json:"rh_percent"`
	WindSpeed      float64   `json:"wind_ms"`
	SolarRadiation float64   `json:"solar_w_m2"`
	Pressure       float64   `json:"pressure_kpa"`
	Precipitation  float64   `json:"precip_mm"`
	Irrigation     float64   `json:"irrigation_mm,omitempty"`
}

// Parcel holds the per-parcel constants of a run.
type Parcel struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Latitude        float64 `json:"latitude"`
	CropCoefficient float64 `json:"kc"`
}

// HourlyMetric is the output record for one (Time, ParcelID) pair.
type HourlyMetric struct {
	Time            time.Time `json:"ts"`
	ParcelID        string    `json:"parcel_id"`
	ETo             float64   `json:"eto_mm_h"`
	ETc             float64   `json:"etc_mm_h"`
	EffectivePrecip float64   `json:"pe_mm_h"`
	Depletion       float64   `json:"depletion_mm"`
	Ks              float64   `json:"ks"`
	// StressIndex is a placeholder for a water-stress index. It currently
	// carries the depletion value and should not be read as depletion.
	StressIndex float64 `json:"stress_index"`
}

// ScenarioNoIrrigation is the only projection scenario produced today.
const ScenarioNoIrrigation = "no-irrigation"

// DeficitProjection is a forecast of depletion for one day under a scenario.
type DeficitProjection struct {
	Date      time.Time `json:"date"`
	ParcelID  string    `json:"parcel_id"`
	Scenario  string    `json:"scenario"`
	DeficitMM float64   `json:"deficit_mm"`
}

// Run is the result of one hourly simulation.
type Run struct {
	ParcelID       string
	Metrics        []HourlyMetric
	SeedDepletion  float64
	FinalDepletion float64
	// Gaps counts consecutive observations more than one hour apart.
	Gaps int
}
