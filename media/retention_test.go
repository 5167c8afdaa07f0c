package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypeCapture:   "captures",
		AssetTypeAnnotated: "annotated",
	})
	require.NoError(t, err)
	return store
}

func writeAgedFile(t *testing.T, store *LocalStorage, assetType AssetType, name string, age time.Duration) string {
	t.Helper()
	dir, err := store.EnsureDir(assetType)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg-ish"), 0644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweepRemovesOnlyExpiredFiles(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewRetentionSweeper(store, []AssetType{AssetTypeCapture, AssetTypeAnnotated}, 7)

	expiredCapture := writeAgedFile(t, store, AssetTypeCapture, "old.jpg", 8*24*time.Hour)
	expiredAnnotated := writeAgedFile(t, store, AssetTypeAnnotated, "old.jpg", 30*24*time.Hour)
	freshCapture := writeAgedFile(t, store, AssetTypeCapture, "fresh.jpg", time.Hour)

	removed, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.NoFileExists(t, expiredCapture)
	assert.NoFileExists(t, expiredAnnotated)
	assert.FileExists(t, freshCapture)
}

func TestSweepOnEmptyDirectories(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewRetentionSweeper(store, []AssetType{AssetTypeCapture}, 7)

	removed, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestScheduleRejectsInvalidExpression(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewRetentionSweeper(store, []AssetType{AssetTypeCapture}, 7)

	err := sweeper.Schedule(cron.New(), "not a schedule")
	assert.Error(t, err)
}

func TestScheduleEmptyExpressionDisables(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewRetentionSweeper(store, []AssetType{AssetTypeCapture}, 7)

	assert.NoError(t, sweeper.Schedule(cron.New(), ""))
}
