package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"001_create_settings.up.sql":   {Data: []byte(`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);`)},
	"001_create_settings.down.sql": {Data: []byte(`DROP TABLE settings;`)},
	"002_create_parcels.up.sql":    {Data: []byte(`CREATE TABLE parcels (id TEXT PRIMARY KEY); CREATE INDEX parcels_id ON parcels (id);`)},
	"002_create_parcels.down.sql":  {Data: []byte(`DROP TABLE parcels;`)},
	"README.md":                    {Data: []byte(`ignored`)},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n))
	return n == 1
}

func TestLoad(t *testing.T) {
	migrations, err := Load(testFS)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create settings", migrations[0].Name)
	assert.Contains(t, migrations[1].Up, "CREATE TABLE parcels")
	assert.Contains(t, migrations[1].Down, "DROP TABLE parcels")
}

func TestMigrateUpAndDown(t *testing.T) {
	db := openDB(t)
	migrations, err := Load(testFS)
	require.NoError(t, err)
	m := NewMigrator(db, migrations, "")

	applied, err := m.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
	assert.True(t, tableExists(t, db, "parcels"))

	v, err := m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	// Already at the latest version.
	applied, err = m.MigrateUp()
	require.NoError(t, err)
	assert.Empty(t, applied)

	require.NoError(t, m.MigrateDown(1))
	assert.False(t, tableExists(t, db, "parcels"))
	assert.True(t, tableExists(t, db, "settings"))
	v, err = m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	assert.Error(t, m.MigrateDown(1))

	require.NoError(t, m.MigrateDown(0))
	assert.False(t, tableExists(t, db, "settings"))
	v, err = m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestMigrateUpFailureKeepsVersion(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, []Migration{
		{Version: 1, Name: "ok", Up: `CREATE TABLE a (id INTEGER);`},
		{Version: 2, Name: "broken", Up: `CREATE TABLE;`},
	}, "")

	applied, err := m.MigrateUp()
	assert.Error(t, err)
	assert.Equal(t, []int{1}, applied)

	v, err := m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
