package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
data-dir: /var/lib/fastclime
storage:
  backend: postgres
  connection-string: "host=localhost user=fastclime dbname=fastclime sslmode=disable"
simulation:
  workers: 8
rest:
  port: 9090
parcels:
  - id: ndiaye-01
    name: N'Diaye demo
    crop: tomato
    latitude: 16.21
    longitude: -16.25
    elevation: 8
    kc: 1.15
  - id: la-01
    latitude: 34.0
    kc: 0.8
`

func TestYAMLProviderLoadConfig(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvDB, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	provider := NewYAMLProvider(path)
	cfg, err := provider.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/fastclime", cfg.DataDir)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Contains(t, cfg.Storage.ConnectionString, "dbname=fastclime")
	assert.Equal(t, 8, cfg.Simulation.Workers)
	assert.Equal(t, 0.23, cfg.Simulation.Albedo)
	assert.Equal(t, 9090, cfg.REST.Port)
	assert.Equal(t, "0.0.0.0", cfg.REST.ListenAddr)
	require.Len(t, cfg.Parcels, 2)
	assert.Equal(t, 1.15, cfg.Parcels[0].CropCoefficient)
	assert.Equal(t, "tomato", cfg.Parcels[0].Crop)

	p, ok := cfg.Parcel("la-01")
	assert.True(t, ok)
	assert.Equal(t, 34.0, p.Latitude)
	_, ok = cfg.Parcel("nope")
	assert.False(t, ok)

	parcels, err := provider.GetParcels()
	require.NoError(t, err)
	assert.Len(t, parcels, 2)
	assert.True(t, provider.IsReadOnly())
}

func TestYAMLProviderMissingFile(t *testing.T) {
	_, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name        string
		db          string
		wantBackend string
	}{
		{"sqlite path", "/tmp/catalog.db", BackendSQLite},
		{"postgres url", "postgres://u:p@localhost/db", BackendPostgres},
		{"postgres keywords", "host=db port=5432 dbname=x", BackendPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, "/data")
			t.Setenv(EnvDB, tt.db)

			var cfg ConfigData
			cfg.ApplyEnv()
			cfg.ApplyDefaults()

			assert.Equal(t, "/data", cfg.DataDir)
			assert.Equal(t, tt.wantBackend, cfg.Storage.Backend)
			if tt.wantBackend == BackendSQLite {
				assert.Equal(t, tt.db, cfg.Storage.SQLitePath)
			} else {
				assert.Equal(t, tt.db, cfg.Storage.ConnectionString)
			}
		})
	}
}

func TestApplyDefaultsSQLitePath(t *testing.T) {
	cfg := ConfigData{DataDir: "/srv/fc"}
	cfg.ApplyDefaults()
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("/srv/fc", "catalog.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, 4, cfg.Simulation.Workers)
}

func TestSQLiteProvider(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvDB, "")

	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	defer provider.Close()

	require.NoError(t, provider.EnsureSchema())
	require.NoError(t, provider.SetSetting("data_dir", "/opt/fastclime"))
	require.NoError(t, provider.SetSetting("simulation.workers", "2"))
	require.NoError(t, provider.SetSetting("rest.port", "8181"))
	require.NoError(t, provider.SetSetting("logging.debug", "true"))
	require.NoError(t, provider.SaveParcel(ParcelData{ID: "b", Latitude: -33.9, CropCoefficient: 0.7}))
	require.NoError(t, provider.SaveParcel(ParcelData{ID: "a", Name: "north", Latitude: 45, CropCoefficient: 1.0}))
	require.NoError(t, provider.SaveParcel(ParcelData{ID: "a", Name: "north field", Latitude: 45, CropCoefficient: 1.05}))

	cfg, err := provider.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/opt/fastclime", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("/opt/fastclime", "catalog.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, 2, cfg.Simulation.Workers)
	assert.Equal(t, 8181, cfg.REST.Port)
	assert.True(t, cfg.Logging.Debug)
	require.Len(t, cfg.Parcels, 2)
	assert.Equal(t, "a", cfg.Parcels[0].ID)
	assert.Equal(t, "north field", cfg.Parcels[0].Name)
	assert.Equal(t, 1.05, cfg.Parcels[0].CropCoefficient)
	assert.False(t, provider.IsReadOnly())
}

func TestSQLiteProviderBadSetting(t *testing.T) {
	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	defer provider.Close()

	require.NoError(t, provider.EnsureSchema())
	require.NoError(t, provider.SetSetting("rest.port", "eighty"))

	_, err = provider.LoadConfig()
	assert.Error(t, err)
}

func TestSQLiteProviderSaveConfig(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvDB, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	want, err := NewYAMLProvider(path).LoadConfig()
	require.NoError(t, err)

	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	defer provider.Close()

	require.NoError(t, provider.SaveConfig(want))
	got, err := provider.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, want.DataDir, got.DataDir)
	assert.Equal(t, want.Storage, got.Storage)
	assert.Equal(t, want.Simulation, got.Simulation)
	assert.Equal(t, want.REST, got.REST)
	require.Len(t, got.Parcels, 2)
	assert.Equal(t, "la-01", got.Parcels[0].ID)
	assert.Equal(t, want.Parcels[0], got.Parcels[1])
}
