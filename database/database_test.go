package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoblog/logging"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Path:              filepath.Join(t.TempDir(), "pages.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		ConnMaxLifetime:   time.Hour,
		ConnMaxIdleTime:   time.Minute,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}
}

func quietLogger() *logging.Logger {
	return logging.NewLoggerTo(io.Discard, logging.DefaultConfig())
}

func TestNew_AppliesMigrationsOnce(t *testing.T) {
	cfg := testConfig(t)

	db, err := New(cfg, quietLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply migrations.
	db, err = New(cfg, quietLogger())
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	migrations, err := getMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	var table string
	require.NoError(t, db.ReadDB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='pages'").Scan(&table))
	assert.Equal(t, "pages", table)
}

func TestDatabase_Health(t *testing.T) {
	db, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Health(context.Background())
	require.NoError(t, err)
	assert.Contains(t, stats, "read_pool")
	assert.Contains(t, stats, "write_pool")
}

func TestGetMigrations_Sorted(t *testing.T) {
	migrations, err := getMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
	assert.Equal(t, "1_pages", migrations[0].Name)
}
