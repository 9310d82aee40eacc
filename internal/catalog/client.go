// Package catalog stores parcels, hourly climate, hourly metrics, deficit
// projections and dataset artifacts in a relational database. PostgreSQL
// and SQLite backends are supported.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/pkg/config"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

const upsertBatchSize = 500

// Catalog holds the connection to the catalog database
type Catalog struct {
	DB      *gorm.DB // Exported so it can be accessed from other packages
	backend string
}

// Open connects to the catalog database described by cfg
func Open(cfg config.StorageData) (*Catalog, error) {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: dbLogger}

	var dialector gorm.Dialector
	switch cfg.Backend {
	case config.BackendPostgres:
		if cfg.ConnectionString == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		log.Info("connecting to PostgreSQL catalog...")
		dialector = postgres.Open(cfg.ConnectionString)
	case config.BackendSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
		log.Infof("opening SQLite catalog at %s", cfg.SQLitePath)
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Warn("warning: unable to open catalog database:", err)
		return nil, err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendSQLite
	}

	if backend == config.BackendSQLite {
		// SQLite allows one writer at a time.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &Catalog{DB: db, backend: backend}, nil
}

// Backend returns the name of the storage backend in use
func (c *Catalog) Backend() string {
	return c.backend
}

// Migrate creates or updates every catalog table
func (c *Catalog) Migrate(ctx context.Context) error {
	log.Debug("migrating catalog schema")
	if err := c.DB.WithContext(ctx).AutoMigrate(
		&ParcelRecord{},
		&ClimateRecord{},
		&MetricRecord{},
		&ProjectionRecord{},
		&Dataset{},
		&Artifact{},
	); err != nil {
		return fmt.Errorf("migrating catalog schema: %w", err)
	}
	return nil
}

// Stats returns the row count of each catalog table
func (c *Catalog) Stats(ctx context.Context) (map[string]int64, error) {
	models := []interface{ TableName() string }{
		ParcelRecord{}, ClimateRecord{}, MetricRecord{}, ProjectionRecord{}, Dataset{}, Artifact{},
	}

	stats := make(map[string]int64, len(models))
	for _, m := range models {
		var n int64
		if err := c.DB.WithContext(ctx).Table(m.TableName()).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("counting %s: %w", m.TableName(), err)
		}
		stats[m.TableName()] = n
	}
	return stats, nil
}

// Close closes the underlying database connection
func (c *Catalog) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// civil drops the location of t, keeping its wall-clock fields, so that
// hourly keys compare equal regardless of the zone they were parsed in.
// Stored times are read back with UTC().
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
