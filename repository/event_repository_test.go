package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/perimeterlab/sentrybackend/database"
	"github.com/perimeterlab/sentrybackend/models"
)

func newTestRepo(t *testing.T) *EventRepository {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return NewEventRepository(db)
}

func TestEventRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)

	event := models.DetectionEvent{
		CapturePath:    "captures/20250101_120000_frame.jpg",
		AnnotatedPath:  "annotated/abc.jpg",
		PreviewPath:    "previews/def.jpg",
		CapturedAt:     1735732800,
		UnknownPresent: true,
		FaceCount:      2,
		CameraMake:     "Hikvision",
		CameraModel:    "DS-2CD2043",
	}
	require.NoError(t, repo.Create(&event))
	require.NotZero(t, event.ID)
	assert.NotZero(t, event.CreatedAt)

	fetched, err := repo.GetByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.CapturePath, fetched.CapturePath)
	assert.Equal(t, event.AnnotatedPath, fetched.AnnotatedPath)
	assert.True(t, fetched.UnknownPresent)
	assert.Equal(t, 2, fetched.FaceCount)
	assert.Equal(t, "Hikvision", fetched.CameraMake)
	assert.Equal(t, "DS-2CD2043", fetched.CameraModel)
}

func TestEventRepositoryCreateDefaultsCapturedAt(t *testing.T) {
	repo := newTestRepo(t)

	event := models.DetectionEvent{CapturePath: "captures/a.jpg", AnnotatedPath: "annotated/a.jpg"}
	require.NoError(t, repo.Create(&event))
	assert.NotZero(t, event.CapturedAt)
}

func TestEventRepositoryGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEventRepositoryListAllNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	older := models.DetectionEvent{CapturePath: "captures/a.jpg", AnnotatedPath: "annotated/a.jpg", CapturedAt: 1000}
	newer := models.DetectionEvent{CapturePath: "captures/b.jpg", AnnotatedPath: "annotated/b.jpg", CapturedAt: 2000}
	require.NoError(t, repo.Create(&older))
	require.NoError(t, repo.Create(&newer))

	events, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newer.ID, events[0].ID)
	assert.Equal(t, older.ID, events[1].ID)
}

func TestEventRepositoryDelete(t *testing.T) {
	repo := newTestRepo(t)

	event := models.DetectionEvent{CapturePath: "captures/a.jpg", AnnotatedPath: "annotated/a.jpg"}
	require.NoError(t, repo.Create(&event))

	require.NoError(t, repo.Delete(event.ID))
	assert.ErrorIs(t, repo.Delete(event.ID), gorm.ErrRecordNotFound)

	_, err := repo.GetByID(event.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEventRepositoryDeleteAllReturnsDeletedRows(t *testing.T) {
	repo := newTestRepo(t)

	for _, path := range []string{"captures/a.jpg", "captures/b.jpg", "captures/c.jpg"} {
		require.NoError(t, repo.Create(&models.DetectionEvent{CapturePath: path, AnnotatedPath: "annotated/x.jpg"}))
	}

	deleted, err := repo.DeleteAll()
	require.NoError(t, err)
	assert.Len(t, deleted, 3)

	remaining, err := repo.ListAll()
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// deleting an empty table is not an error
	deleted, err = repo.DeleteAll()
	require.NoError(t, err)
	assert.Empty(t, deleted)
}
