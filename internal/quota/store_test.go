package quota

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quota.json")
	store := NewFileStore(path)
	assert.Equal(t, path, store.Path())

	t.Run("missing file yields zero snapshot", func(t *testing.T) {
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, Snapshot{}, snap)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, Snapshot{Date: "2024-03-14", Used: 321}))
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, Snapshot{Date: "2024-03-14", Used: 321}, snap)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		_, err := store.Load(ctx)
		assert.Error(t, err)
	})
}

func TestValkeyStore(t *testing.T) {
	url := os.Getenv("VALKEY_TEST_URL")
	if url == "" {
		t.Skip("VALKEY_TEST_URL not set")
	}

	ctx := context.Background()
	store, err := NewValkeyStore(ValkeyConfig{URL: url, KeyPrefix: "test:" + t.Name() + ":"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, Snapshot{Date: "2024-03-14", Used: 42}))
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Date: "2024-03-14", Used: 42}, snap)
}

func TestNewValkeyStore_RequiresURL(t *testing.T) {
	_, err := NewValkeyStore(ValkeyConfig{})
	assert.Error(t, err)
}
