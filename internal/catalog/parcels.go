package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/config"
)

// UpsertParcel creates or replaces a parcel
func (c *Catalog) UpsertParcel(ctx context.Context, p config.ParcelData) error {
	record := ParcelRecord{
		ID:              p.ID,
		Name:            p.Name,
		Crop:            p.Crop,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Elevation:       p.Elevation,
		CropCoefficient: p.CropCoefficient,
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upserting parcel %s: %w", p.ID, err)
	}
	return nil
}

// SyncParcels upserts every configured parcel
func (c *Catalog) SyncParcels(ctx context.Context, parcels []config.ParcelData) error {
	for _, p := range parcels {
		if err := c.UpsertParcel(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Parcel returns the parcel with the given ID, or ErrNotFound
func (c *Catalog) Parcel(ctx context.Context, id string) (simulation.Parcel, error) {
	var record ParcelRecord
	err := c.DB.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return simulation.Parcel{}, fmt.Errorf("parcel %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return simulation.Parcel{}, fmt.Errorf("querying parcel %s: %w", id, err)
	}
	return record.toParcel(), nil
}

// Parcels returns every parcel ordered by ID
func (c *Catalog) Parcels(ctx context.Context) ([]config.ParcelData, error) {
	var records []ParcelRecord
	if err := c.DB.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("querying parcels: %w", err)
	}

	parcels := make([]config.ParcelData, len(records))
	for i, r := range records {
		parcels[i] = config.ParcelData{
			ID:              r.ID,
			Name:            r.Name,
			Crop:            r.Crop,
			Latitude:        r.Latitude,
			Longitude:       r.Longitude,
			Elevation:       r.Elevation,
			CropCoefficient: r.CropCoefficient,
		}
	}
	return parcels, nil
}
