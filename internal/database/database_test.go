package database

import (
	"context"
	"testing"

	"makemystay/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	return &config.DatabaseConfig{URL: "sqlite://:memory:", MaxOpenConns: 5, MaxIdleConns: 1}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(openMemory(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	// Applying twice is a no-op.
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "contacts", "properties", "property_images"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	assert.NoError(t, Ping(context.Background(), db))

	stats, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestForeignKeysEnabled(t *testing.T) {
	db, err := Open(openMemory(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestPingAfterClose(t *testing.T) {
	db, err := Open(openMemory(t))
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, Ping(context.Background(), db))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN(":memory:"))
	assert.Equal(t, "./realty.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("./realty.db?mode=rwc"))
}
