package config

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	_ "github.com/glebarez/go-sqlite"

	"github.com/chrissnell/fastclime/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// EnsureSchema applies any pending configuration schema migrations
func (s *SQLiteProvider) EnsureSchema() error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	migrations, err := migrate.Load(sub)
	if err != nil {
		return err
	}
	if _, err := migrate.NewMigrator(s.db, migrations, "").MigrateUp(); err != nil {
		return fmt.Errorf("failed to create configuration schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	config := &ConfigData{
		DataDir: settings["data_dir"],
		Storage: StorageData{
			Backend:          settings["storage.backend"],
			ConnectionString: settings["storage.connection_string"],
			SQLitePath:       settings["storage.sqlite_path"],
		},
		REST: RESTServerData{
			Cert:       settings["rest.cert"],
			Key:        settings["rest.key"],
			ListenAddr: settings["rest.listen_addr"],
		},
		Logging: LoggingData{
			File: settings["logging.file"],
		},
	}

	if v, ok := settings["simulation.albedo"]; ok {
		if config.Simulation.Albedo, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid simulation.albedo %q: %w", v, err)
		}
	}
	if v, ok := settings["simulation.workers"]; ok {
		if config.Simulation.Workers, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid simulation.workers %q: %w", v, err)
		}
	}
	if v, ok := settings["rest.port"]; ok {
		if config.REST.Port, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid rest.port %q: %w", v, err)
		}
	}
	if v, ok := settings["logging.debug"]; ok {
		if config.Logging.Debug, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid logging.debug %q: %w", v, err)
		}
	}

	config.Parcels, err = s.GetParcels()
	if err != nil {
		return nil, fmt.Errorf("failed to load parcels: %w", err)
	}

	config.ApplyEnv()
	config.ApplyDefaults()
	return config, nil
}

func (s *SQLiteProvider) settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// GetParcels returns parcel configurations from the database
func (s *SQLiteProvider) GetParcels() ([]ParcelData, error) {
	rows, err := s.db.Query(`
		SELECT id, name, crop, latitude, longitude, elevation, kc
		FROM parcels
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer rows.Close()

	var parcels []ParcelData
	for rows.Next() {
		var p ParcelData
		var name, crop sql.NullString

		if err := rows.Scan(&p.ID, &name, &crop, &p.Latitude, &p.Longitude, &p.Elevation, &p.CropCoefficient); err != nil {
			return nil, fmt.Errorf("failed to scan parcel row: %w", err)
		}
		if name.Valid {
			p.Name = name.String
		}
		if crop.Valid {
			p.Crop = crop.String
		}
		parcels = append(parcels, p)
	}
	return parcels, rows.Err()
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	config, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Storage, nil
}

// SaveParcel inserts or replaces a parcel
func (s *SQLiteProvider) SaveParcel(p ParcelData) error {
	_, err := s.db.Exec(`
		INSERT INTO parcels (id, name, crop, latitude, longitude, elevation, kc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, crop = excluded.crop,
			latitude = excluded.latitude, longitude = excluded.longitude,
			elevation = excluded.elevation, kc = excluded.kc
	`, p.ID, p.Name, p.Crop, p.Latitude, p.Longitude, p.Elevation, p.CropCoefficient)
	if err != nil {
		return fmt.Errorf("failed to save parcel %s: %w", p.ID, err)
	}
	return nil
}

// SetSetting stores a single key/value setting
func (s *SQLiteProvider) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

// SaveConfig writes every setting and parcel of cfg in one transaction,
// creating the schema first.
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	if err := s.EnsureSchema(); err != nil {
		return err
	}

	settings := map[string]string{
		"data_dir":                  cfg.DataDir,
		"storage.backend":           cfg.Storage.Backend,
		"storage.connection_string": cfg.Storage.ConnectionString,
		"storage.sqlite_path":       cfg.Storage.SQLitePath,
		"rest.cert":                 cfg.REST.Cert,
		"rest.key":                  cfg.REST.Key,
		"rest.listen_addr":          cfg.REST.ListenAddr,
		"logging.file":              cfg.Logging.File,
		"logging.debug":             strconv.FormatBool(cfg.Logging.Debug),
	}
	if cfg.Simulation.Albedo != 0 {
		settings["simulation.albedo"] = strconv.FormatFloat(cfg.Simulation.Albedo, 'f', -1, 64)
	}
	if cfg.Simulation.Workers != 0 {
		settings["simulation.workers"] = strconv.Itoa(cfg.Simulation.Workers)
	}
	if cfg.REST.Port != 0 {
		settings["rest.port"] = strconv.Itoa(cfg.REST.Port)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for k, v := range settings {
		if v == "" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", k, err)
		}
	}

	for _, p := range cfg.Parcels {
		if _, err := tx.Exec(`
			INSERT INTO parcels (id, name, crop, latitude, longitude, elevation, kc)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name, crop = excluded.crop,
				latitude = excluded.latitude, longitude = excluded.longitude,
				elevation = excluded.elevation, kc = excluded.kc
		`, p.ID, p.Name, p.Crop, p.Latitude, p.Longitude, p.Elevation, p.CropCoefficient); err != nil {
			return fmt.Errorf("failed to save parcel %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
