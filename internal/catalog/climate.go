package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/chrissnell/fastclime/internal/simulation"
)

// UpsertClimate stores hourly observations for a parcel, replacing any
// existing observation for the same hour.
func (c *Catalog) UpsertClimate(ctx context.Context, parcelID string, obs []simulation.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	records := make([]ClimateRecord, len(obs))
	for i, o := range obs {
		records[i] = ClimateRecord{
			Timestamp:      civil(o.Time),
			ParcelID:       parcelID,
			TempC:          o.TempC,
			RelHumidity:    o.RelHumidity,
			WindSpeed:      o.WindSpeed,
			SolarRadiation: o.SolarRadiation,
			Pressure:       o.Pressure,
			Precipitation:  o.Precipitation,
			Irrigation:     o.Irrigation,
		}
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ts"}, {Name: "parcel_id"}},
		UpdateAll: true,
	}).CreateInBatches(records, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upserting climate observations: %w", err)
	}
	return nil
}

// ClimateBetween returns the parcel's observations with start <= ts <= end,
// in time order.
func (c *Catalog) ClimateBetween(ctx context.Context, parcelID string, start, end time.Time) ([]simulation.Observation, error) {
	var records []ClimateRecord
	err := c.DB.WithContext(ctx).
		Where("parcel_id = ? AND ts >= ? AND ts <= ?", parcelID, civil(start), civil(end)).
		Order("ts ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("querying climate observations: %w", err)
	}

	obs := make([]simulation.Observation, len(records))
	for i, r := range records {
		obs[i] = r.toObservation()
	}
	return obs, nil
}
