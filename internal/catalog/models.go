package catalog

import (
	"time"

	"github.com/chrissnell/fastclime/internal/simulation"
)

// ParcelRecord is a parcel row
type ParcelRecord struct {
	ID              string    `gorm:"primaryKey;column:id"`
	Name            string    `gorm:"column:name"`
	Crop            string    `gorm:"column:crop"`
	Latitude        float64   `gorm:"column:latitude;not null"`
	Longitude       float64   `gorm:"column:longitude"`
	Elevation       float64   `gorm:"column:elevation"`
	CropCoefficient float64   `gorm:"column:kc;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for ParcelRecord
func (ParcelRecord) TableName() string {
	return "parcels"
}

func (r ParcelRecord) toParcel() simulation.Parcel {
	return simulation.Parcel{
		ID:              r.ID,
		Name:            r.Name,
		Latitude:        r.Latitude,
		CropCoefficient: r.CropCoefficient,
	}
}

// ClimateRecord is one hour of climate input for a parcel
type ClimateRecord struct {
	Timestamp      time.Time `gorm:"primaryKey;column:ts"`
	ParcelID       string    `gorm:"primaryKey;column:parcel_id"`
	TempC          float64   `gorm:"column:temp_c"`
	RelHumidity    float64   `gorm:"column:rh_percent"`
	WindSpeed      float64   `gorm:"column:wind_ms"`
	SolarRadiation float64   `gorm:"column:solar_w_m2"`
	Pressure       float64   `gorm:"column:pressure_kpa"`
	Precipitation  float64   `gorm:"column:precip_mm"`
	Irrigation     float64   `gorm:"column:irrigation_mm"`
}

// TableName specifies the table name for ClimateRecord
func (ClimateRecord) TableName() string {
	return "climate_hourly"
}

func (r ClimateRecord) toObservation() simulation.Observation {
	return simulation.Observation{
		Time:           r.Timestamp.UTC(),
		TempC:          r.TempC,
		RelHumidity:    r.RelHumidity,
		WindSpeed:      r.WindSpeed,
		SolarRadiation: r.SolarRadiation,
		Pressure:       r.Pressure,
		Precipitation:  r.Precipitation,
		Irrigation:     r.Irrigation,
	}
}

// MetricRecord is one row of hourly simulation output
type MetricRecord struct {
	Timestamp       time.Time `gorm:"primaryKey;column:ts"`
	ParcelID        string    `gorm:"primaryKey;column:parcel_id"`
	ETo             float64   `gorm:"column:eto_mm_h"`
	ETc             float64   `gorm:"column:etc_mm_h"`
	EffectivePrecip float64   `gorm:"column:pe_mm_h"`
	Depletion       float64   `gorm:"column:depletion_mm"`
	Ks              float64   `gorm:"column:ks"`
	StressIndex     float64   `gorm:"column:stress_index"`
}

// TableName specifies the table name for MetricRecord
func (MetricRecord) TableName() string {
	return "metrics_hourly"
}

func (r MetricRecord) toMetric() simulation.HourlyMetric {
	return simulation.HourlyMetric{
		Time:            r.Timestamp.UTC(),
		ParcelID:        r.ParcelID,
		ETo:             r.ETo,
		ETc:             r.ETc,
		EffectivePrecip: r.EffectivePrecip,
		Depletion:       r.Depletion,
		Ks:              r.Ks,
		StressIndex:     r.StressIndex,
	}
}

// ProjectionRecord is a daily deficit projection under one scenario
type ProjectionRecord struct {
	Date      time.Time `gorm:"primaryKey;column:date"`
	ParcelID  string    `gorm:"primaryKey;column:parcel_id"`
	Scenario  string    `gorm:"primaryKey;column:scenario"`
	DeficitMM float64   `gorm:"column:deficit_mm"`
}

// TableName specifies the table name for ProjectionRecord
func (ProjectionRecord) TableName() string {
	return "deficit_proj"
}

func (r ProjectionRecord) toProjection() simulation.DeficitProjection {
	return simulation.DeficitProjection{
		Date:      r.Date.UTC(),
		ParcelID:  r.ParcelID,
		Scenario:  r.Scenario,
		DeficitMM: r.DeficitMM,
	}
}

// Dataset is a named source of data known to the catalog
type Dataset struct {
	Name        string    `gorm:"primaryKey;column:name" json:"name"`
	Source      string    `gorm:"column:source" json:"source"`
	Version     string    `gorm:"column:version" json:"version"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for Dataset
func (Dataset) TableName() string {
	return "datasets"
}

// Artifact is a file produced for a dataset at some processing stage
type Artifact struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Dataset   string    `gorm:"column:dataset;not null;index" json:"dataset"`
	Stage     string    `gorm:"column:stage;not null" json:"stage"`
	Path      string    `gorm:"column:path;not null" json:"path"`
	SHA256    string    `gorm:"column:sha256" json:"sha256"`
	SizeBytes int64     `gorm:"column:size_bytes" json:"size_bytes"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for Artifact
func (Artifact) TableName() string {
	return "artifacts"
}
