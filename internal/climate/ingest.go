package climate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/internal/simulation"
)

// Dataset registration for ingested climate files
const (
	DatasetName        = "climate_hourly"
	datasetSource      = "nasa-power"
	datasetVersion     = "hourly"
	datasetDescription = "Hourly 2 m temperature, humidity, wind, shortwave radiation, precipitation and surface pressure"
)

// Store is the part of the catalog the ingester writes to
type Store interface {
	UpsertClimate(ctx context.Context, parcelID string, obs []simulation.Observation) error
	RegisterDataset(ctx context.Context, name, source, version, description string) error
	RegisterArtifact(ctx context.Context, dataset, stage, relPath, sha256 string, size int64) (uuid.UUID, error)
}

// Result describes one ingested file
type Result struct {
	ParcelID   string
	Rows       int
	Start      time.Time
	End        time.Time
	ArtifactID uuid.UUID
	Path       string
}

// Ingester loads climate CSV files into the catalog
type Ingester struct {
	store  Store
	layout catalog.Layout
	logger *zap.SugaredLogger
}

// NewIngester creates an Ingester
func NewIngester(store Store, layout catalog.Layout, logger *zap.SugaredLogger) *Ingester {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ingester{store: store, layout: layout, logger: logger}
}

// Load reads a CSV file into time-ordered observations. Duplicate
// timestamps are rejected.
func Load(path string, elevation *float64) ([]simulation.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}

	obs := make([]simulation.Observation, 0, len(records))
	for i, r := range records {
		o, err := r.Observation(elevation)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		obs = append(obs, o)
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Time.Before(obs[j].Time) })
	for i := 1; i < len(obs); i++ {
		if obs[i].Time.Equal(obs[i-1].Time) {
			return nil, fmt.Errorf("duplicate timestamp %s", obs[i].Time.Format("2006-01-02 15:04"))
		}
	}
	return obs, nil
}

// IngestFile stores the observations in path for a parcel, copies the file
// to the processed stage and registers it as an artifact of the
// climate_hourly dataset.
func (in *Ingester) IngestFile(ctx context.Context, parcelID, path string, elevation *float64) (*Result, error) {
	obs, err := Load(path, elevation)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%s contains no observations", path)
	}

	for _, o := range obs {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("%s at %s: %w", path, o.Time.Format("2006-01-02 15:04"), err)
		}
	}

	if err := in.store.UpsertClimate(ctx, parcelID, obs); err != nil {
		return nil, err
	}

	dst, err := in.layout.DataPath(DatasetName, catalog.StageProcessed, parcelID+"_"+filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if err := catalog.CopyFile(path, dst); err != nil {
		return nil, err
	}

	sum, size, err := catalog.FileSHA256(dst)
	if err != nil {
		return nil, err
	}
	rel, err := in.layout.Rel(dst)
	if err != nil {
		return nil, err
	}

	if err := in.store.RegisterDataset(ctx, DatasetName, datasetSource, datasetVersion, datasetDescription); err != nil {
		return nil, err
	}
	id, err := in.store.RegisterArtifact(ctx, DatasetName, catalog.StageProcessed, rel, sum, size)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ParcelID:   parcelID,
		Rows:       len(obs),
		Start:      obs[0].Time,
		End:        obs[len(obs)-1].Time,
		ArtifactID: id,
		Path:       dst,
	}
	in.logger.Infow("ingested climate file", "parcel", parcelID, "rows", res.Rows,
		"start", res.Start.Format("2006-01-02 15:04"), "end", res.End.Format("2006-01-02 15:04"),
		"artifact", id.String())
	return res, nil
}
