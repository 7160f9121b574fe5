package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fld/internal/models"
	"fld/internal/structures"
)

func snapshotConfig(t *testing.T, keep int) *structures.Config {
	conf := &structures.Config{}
	conf.Resolver.SnapshotDir = t.TempDir()
	conf.Resolver.BackupKeep = keep
	return conf
}

func newTestSnapshotStore(t *testing.T, keep int) *SnapshotStore {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)

	store, err := NewSnapshotStore(snapshotConfig(t, keep), compressor, testLogger{})
	require.NoError(t, err)
	return store.(*SnapshotStore)
}

func TestSnapshotStoreLatestRoundTrip(t *testing.T) {
	store := newTestSnapshotStore(t, 3)

	profiles := []models.Profile{
		{Username: "alpha", FollowerCount: i64(100), Bio: "hi"},
	}
	require.NoError(t, store.SaveLatest(profiles))

	loaded, err := store.LoadLatest()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "alpha", loaded[0].Username)
	assert.Equal(t, int64(100), loaded[0].Followers())
	assert.Equal(t, "hi", loaded[0].Bio)
}

func TestSnapshotStoreEmptyLoads(t *testing.T) {
	store := newTestSnapshotStore(t, 3)

	profiles, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, profiles)

	entries, err := store.LoadSnapshots()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestSnapshotStoreSnapshotRoundTrip(t *testing.T) {
	store := newTestSnapshotStore(t, 3)

	at := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	entries := []models.SnapshotEntry{
		{Username: "alpha", Followers: 100, Timestamp: at},
	}
	require.NoError(t, store.SaveSnapshots(entries))

	loaded, err := store.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(100), loaded[0].Followers)
	assert.True(t, at.Equal(loaded[0].Timestamp))
}

func TestSnapshotStoreRotationKeepsNewest(t *testing.T) {
	store := newTestSnapshotStore(t, 2)

	// deterministic, strictly increasing backup names
	var tick int64
	store.now = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}

	for i := 0; i < 5; i++ {
		entries := []models.SnapshotEntry{{Username: "alpha", Followers: int64(i)}}
		require.NoError(t, store.SaveSnapshots(entries))
	}

	backups, err := filepath.Glob(filepath.Join(store.dir, "previous_snapshots-*"+backupSuffix))
	require.NoError(t, err)
	// first save has nothing to rotate, later saves each produce one backup
	assert.Len(t, backups, 2)

	// the live file still holds the newest entries
	loaded, err := store.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(4), loaded[0].Followers)
}

func TestSnapshotStoreBackupsDecompress(t *testing.T) {
	store := newTestSnapshotStore(t, 5)

	require.NoError(t, store.SaveSnapshots([]models.SnapshotEntry{{Username: "first", Followers: 1}}))
	require.NoError(t, store.SaveSnapshots([]models.SnapshotEntry{{Username: "second", Followers: 2}}))

	backups, err := filepath.Glob(filepath.Join(store.dir, "previous_snapshots-*"+backupSuffix))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	compressed, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	raw, err := store.compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "first")
}

func TestSnapshotStoreAtomicWriteLeavesNoTemp(t *testing.T) {
	store := newTestSnapshotStore(t, 3)

	require.NoError(t, store.SaveLatest([]models.Profile{{Username: "alpha", FollowerCount: i64(1)}}))

	leftovers, err := filepath.Glob(filepath.Join(store.dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
