package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/simaogato/pricelist-backend/internal/adapter/repository/repotest"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) domain.SnapshotRepository {
		return NewSnapshotRepository(filepath.Join(t.TempDir(), "prices.json"))
	})
}

func TestSave_CreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	repo := NewSnapshotRepository(filepath.Join(dir, "prices.json"))

	require.NoError(t, repo.Save(context.Background(), repotest.Fixture()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prices.json", entries[0].Name())
}

func TestSave_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	repo := NewSnapshotRepository(path)

	require.NoError(t, repo.Save(context.Background(), repotest.Fixture()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date": "2024-06-15"`)
	assert.Contains(t, string(raw), `"previousPrice": "1.99"`)
	assert.Contains(t, string(raw), `"lastUpdated": "2024-06-15T09:30:15.123Z"`)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := NewSnapshotRepository(path).Load(context.Background())

	assert.ErrorContains(t, err, "failed to decode snapshot")
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSnapshotRepository(filepath.Join(t.TempDir(), "prices.json")).Load(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
