package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpjamma/internal/config"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/storage"
)

func TestOpenNames_Static(t *testing.T) {
	var cfg config.Config
	cfg.Names.Backend = config.BackendStatic

	n, err := storage.OpenNames(context.Background(), cfg, dice.NewSeededSource(1))
	require.NoError(t, err)
	defer n.Close()

	name, err := n.Provider().Name(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, name)

	_, err = n.Store()
	assert.ErrorIs(t, err, storage.ErrNotWritable)
}

func TestOpenNames_SQLiteRoundTrip(t *testing.T) {
	var cfg config.Config
	cfg.Names.Backend = config.BackendSQLite
	cfg.Names.SQLitePath = filepath.Join(t.TempDir(), "names.db")
	ctx := context.Background()

	n, err := storage.OpenNames(ctx, cfg, dice.NewSeededSource(1))
	require.NoError(t, err)
	defer n.Close()

	store, err := n.Store()
	require.NoError(t, err)
	added, err := store.Add(ctx, "Kestrel")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	name, err := n.Provider().Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kestrel", name)
}

func TestOpenNames_UnknownBackend(t *testing.T) {
	var cfg config.Config
	cfg.Names.Backend = "redis"
	_, err := storage.OpenNames(context.Background(), cfg, dice.NewSeededSource(1))
	assert.ErrorContains(t, err, "redis")
}
