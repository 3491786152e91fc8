package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/domain"
	"makemystay/internal/repository"
	"makemystay/internal/services"
)

func TestBundledSeedImports(t *testing.T) {
	payloads, err := loadSeed(filepath.Join("..", "..", "seeds", "properties.yaml"))
	require.NoError(t, err)
	require.Len(t, payloads, 10)
	assert.Equal(t, "Ashok PG Colive", payloads[0].PropertyName)
	require.NotNil(t, payloads[0].SinglePrice)
	assert.Equal(t, 9000.0, *payloads[0].SinglePrice)
	assert.Nil(t, payloads[0].DoublePrice)

	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite://:memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	store := repository.NewPropertyRepository(db)
	imported, err := services.NewPropertyService(store, services.NewValidator()).Import(ctx, payloads)
	require.NoError(t, err)
	assert.Len(t, imported, 10)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)

	latest, err := store.Latest(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "Urban homes", latest[0].PropertyName)
	assert.Equal(t, domain.PropertyType("1RK"), latest[0].PropertyType)
}

func TestLoadSeedErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadSeed(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("properties: []\n"), 0o600))
	_, err = loadSeed(empty)
	assert.ErrorContains(t, err, "contains no properties")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("properties: [\n"), 0o600))
	_, err = loadSeed(broken)
	assert.ErrorContains(t, err, "parse seed file")
}
