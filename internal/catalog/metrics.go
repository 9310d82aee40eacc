package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/chrissnell/fastclime/internal/simulation"
)

var _ simulation.Store = (*Catalog)(nil)

// UpsertMetrics writes hourly metrics. A row that already exists for the
// same (ts, parcel_id) is overwritten.
func (c *Catalog) UpsertMetrics(ctx context.Context, metrics []simulation.HourlyMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	records := make([]MetricRecord, len(metrics))
	for i, m := range metrics {
		records[i] = MetricRecord{
			Timestamp:       civil(m.Time),
			ParcelID:        m.ParcelID,
			ETo:             m.ETo,
			ETc:             m.ETc,
			EffectivePrecip: m.EffectivePrecip,
			Depletion:       m.Depletion,
			Ks:              m.Ks,
			StressIndex:     m.StressIndex,
		}
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ts"}, {Name: "parcel_id"}},
		UpdateAll: true,
	}).CreateInBatches(records, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upserting hourly metrics: %w", err)
	}
	return nil
}

// LastDepletion returns the most recent stored depletion for the parcel
// strictly before the given time. The boolean is false when none exists.
func (c *Catalog) LastDepletion(ctx context.Context, parcelID string, before time.Time) (float64, bool, error) {
	var records []MetricRecord
	err := c.DB.WithContext(ctx).
		Where("parcel_id = ? AND ts < ?", parcelID, civil(before)).
		Order("ts DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return 0, false, fmt.Errorf("querying last depletion: %w", err)
	}
	if len(records) == 0 {
		return 0, false, nil
	}
	return records[0].Depletion, true, nil
}

// LatestMetric returns the most recent stored metric for the parcel
func (c *Catalog) LatestMetric(ctx context.Context, parcelID string) (simulation.HourlyMetric, error) {
	var records []MetricRecord
	err := c.DB.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("ts DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return simulation.HourlyMetric{}, fmt.Errorf("querying latest metric: %w", err)
	}
	if len(records) == 0 {
		return simulation.HourlyMetric{}, fmt.Errorf("no metrics for parcel %s: %w", parcelID, ErrNotFound)
	}
	return records[0].toMetric(), nil
}

// MetricsBetween returns the parcel's metrics with start <= ts <= end, in
// time order.
func (c *Catalog) MetricsBetween(ctx context.Context, parcelID string, start, end time.Time) ([]simulation.HourlyMetric, error) {
	var records []MetricRecord
	err := c.DB.WithContext(ctx).
		Where("parcel_id = ? AND ts >= ? AND ts <= ?", parcelID, civil(start), civil(end)).
		Order("ts ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("querying hourly metrics: %w", err)
	}

	metrics := make([]simulation.HourlyMetric, len(records))
	for i, r := range records {
		metrics[i] = r.toMetric()
	}
	return metrics, nil
}

// UpsertProjections writes deficit projections, replacing rows with the
// same (date, parcel_id, scenario).
func (c *Catalog) UpsertProjections(ctx context.Context, projections []simulation.DeficitProjection) error {
	if len(projections) == 0 {
		return nil
	}

	records := make([]ProjectionRecord, len(projections))
	for i, p := range projections {
		records[i] = ProjectionRecord{
			Date:      civil(p.Date),
			ParcelID:  p.ParcelID,
			Scenario:  p.Scenario,
			DeficitMM: p.DeficitMM,
		}
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "parcel_id"}, {Name: "scenario"}},
		UpdateAll: true,
	}).CreateInBatches(records, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upserting deficit projections: %w", err)
	}
	return nil
}

// Projections returns every stored projection for the parcel, by date
func (c *Catalog) Projections(ctx context.Context, parcelID string) ([]simulation.DeficitProjection, error) {
	var records []ProjectionRecord
	err := c.DB.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("date ASC, scenario ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("querying deficit projections: %w", err)
	}

	projections := make([]simulation.DeficitProjection, len(records))
	for i, r := range records {
		projections[i] = r.toProjection()
	}
	return projections, nil
}
