// Package migrate applies numbered SQL migrations to a database/sql
// connection and records the applied version in a tracking table.
//
// Migration files are named NNN_description.up.sql and
// NNN_description.down.sql.
package migrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

var fileRegex = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Load reads every migration in the root of fsys, ordered by version
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		matches := fileRegex.FindStringSubmatch(e.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in file %s: %w", e.Name(), err)
		}
		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: strings.ReplaceAll(matches[2], "_", " ")}
			byVersion[version] = m
		}
		if matches[3] == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Migrator handles the execution of migrations against a SQLite database
type Migrator struct {
	db         *sql.DB
	migrations []Migration
	table      string
}

// NewMigrator creates a new migrator instance. An empty table name uses
// schema_migrations.
func NewMigrator(db *sql.DB, migrations []Migration, table string) *Migrator {
	if table == "" {
		table = "schema_migrations"
	}
	return &Migrator{db: db, migrations: migrations, table: table}
}

// CurrentVersion returns the highest applied migration version, or 0
func (m *Migrator) CurrentVersion() (int, error) {
	if err := m.createTable(); err != nil {
		return 0, err
	}

	var version int
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", m.table)
	if err := m.db.QueryRow(query).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// MigrateUp applies every pending migration in order and returns the
// versions it applied.
func (m *Migrator) MigrateUp() ([]int, error) {
	current, err := m.CurrentVersion()
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		if err := m.execute(mig.Version, mig.Up, mig.Version); err != nil {
			return applied, fmt.Errorf("failed to apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		applied = append(applied, mig.Version)
	}
	return applied, nil
}

// MigrateDown reverts migrations newer than target, newest first
func (m *Migrator) MigrateDown(target int) error {
	current, err := m.CurrentVersion()
	if err != nil {
		return err
	}
	if target >= current {
		return fmt.Errorf("target version %d must be less than current version %d", target, current)
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if mig.Version <= target || mig.Version > current {
			continue
		}
		if mig.Down == "" {
			return fmt.Errorf("migration %d has no down SQL", mig.Version)
		}
		if err := m.execute(mig.Version, mig.Down, target); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", mig.Version, err)
		}
	}
	return nil
}

func (m *Migrator) createTable() error {
	_, err := m.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, m.table))
	if err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// execute runs one migration's SQL and records newVersion as the highest
// applied version, in a single transaction.
func (m *Migrator) execute(version int, stmt string, newVersion int) error {
	if strings.TrimSpace(stmt) == "" {
		return fmt.Errorf("migration %d has no SQL", version)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE version > ?", m.table), newVersion); err != nil {
		return fmt.Errorf("failed to update migration version: %w", err)
	}
	if newVersion > 0 {
		if _, err := tx.Exec(fmt.Sprintf("INSERT OR REPLACE INTO %s (version) VALUES (?)", m.table), newVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return tx.Commit()
}
