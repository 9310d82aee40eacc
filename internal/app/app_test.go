package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/fastclime/pkg/config"
)

func TestOpenCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ConfigData{
		DataDir: dir,
		Parcels: []config.ParcelData{{ID: "p-001", Latitude: 34, CropCoefficient: 0.8}},
	}
	cfg.ApplyDefaults()

	c, layout, err := OpenCatalog(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, dir, layout.Root)
	assert.FileExists(t, filepath.Join(dir, "catalog.db"))
	_, err = os.Stat(filepath.Join(dir, "processed"))
	assert.NoError(t, err)

	p, err := c.Parcel(context.Background(), "p-001")
	require.NoError(t, err)
	assert.Equal(t, 0.8, p.CropCoefficient)
}
