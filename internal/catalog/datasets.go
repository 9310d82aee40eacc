package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// RegisterDataset records a dataset. Registering a name that already exists
// leaves the existing row untouched.
func (c *Catalog) RegisterDataset(ctx context.Context, name, source, version, description string) error {
	ds := Dataset{
		Name:        name,
		Source:      source,
		Version:     version,
		Description: description,
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ds).Error
	if err != nil {
		return fmt.Errorf("registering dataset %s: %w", name, err)
	}
	return nil
}

// Datasets returns every registered dataset
func (c *Catalog) Datasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	if err := c.DB.WithContext(ctx).Order("name ASC").Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	return datasets, nil
}

// RegisterArtifact records a file belonging to a dataset and returns its ID
func (c *Catalog) RegisterArtifact(ctx context.Context, dataset, stage, relPath, sha256 string, size int64) (uuid.UUID, error) {
	if !validStage(stage) {
		return uuid.Nil, fmt.Errorf("unknown stage %q", stage)
	}

	id := uuid.New()
	artifact := Artifact{
		ID:        id.String(),
		Dataset:   dataset,
		Stage:     stage,
		Path:      relPath,
		SHA256:    sha256,
		SizeBytes: size,
	}

	if err := c.DB.WithContext(ctx).Create(&artifact).Error; err != nil {
		return uuid.Nil, fmt.Errorf("registering artifact %s: %w", relPath, err)
	}
	return id, nil
}

// Artifacts returns the artifacts of a dataset, oldest first
func (c *Catalog) Artifacts(ctx context.Context, dataset string) ([]Artifact, error) {
	var artifacts []Artifact
	err := c.DB.WithContext(ctx).
		Where("dataset = ?", dataset).
		Order("created_at ASC").
		Find(&artifacts).Error
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	return artifacts, nil
}
