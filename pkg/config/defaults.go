package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/fastclime/pkg/fao56"
)

// Environment variables that override file or database configuration
const (
	EnvDataDir = "FASTCLIME_DATA_DIR"
	EnvDB      = "FASTCLIME_DB"
)

const (
	defaultWorkers = 4
	defaultPort    = 8080
)

// DefaultDataDir returns ~/.fastclime/data, or a relative path when the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fastclime", "data")
	}
	return filepath.Join(home, ".fastclime", "data")
}

// ApplyEnv overrides the data directory and catalog connection from the
// environment. FASTCLIME_DB is a PostgreSQL connection string when it
// starts with postgres:// or contains host=, and a SQLite path otherwise.
func (c *ConfigData) ApplyEnv() {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
	if db := os.Getenv(EnvDB); db != "" {
		if isPostgresDSN(db) {
			c.Storage.Backend = BackendPostgres
			c.Storage.ConnectionString = db
		} else {
			c.Storage.Backend = BackendSQLite
			c.Storage.SQLitePath = db
		}
	}
}

// ApplyDefaults fills unset values
func (c *ConfigData) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.DataDir, "catalog.db")
	}
	if c.Simulation.Albedo <= 0 {
		c.Simulation.Albedo = fao56.DefaultAlbedo
	}
	if c.Simulation.Workers <= 0 {
		c.Simulation.Workers = defaultWorkers
	}
	if c.REST.Port == 0 {
		c.REST.Port = defaultPort
	}
	if c.REST.ListenAddr == "" {
		c.REST.ListenAddr = "0.0.0.0"
	}
}

func isPostgresDSN(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") ||
		strings.HasPrefix(s, "host=") || strings.Contains(s, " host=")
}
