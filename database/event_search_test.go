package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimeterlab/sentrybackend/models"
)

func seedSearchDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitGormDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrateModels(db))

	events := []models.DetectionEvent{
		{CapturePath: "captures/a.jpg", AnnotatedPath: "annotated/a.jpg", CapturedAt: 1000, UnknownPresent: false, FaceCount: 1, CreatedAt: 1, UpdatedAt: 1},
		{CapturePath: "captures/b.jpg", AnnotatedPath: "annotated/b.jpg", CapturedAt: 2000, UnknownPresent: true, FaceCount: 2, CameraMake: "Axis", CameraModel: "M3045", CreatedAt: 1, UpdatedAt: 1},
		{CapturePath: "captures/c.jpg", AnnotatedPath: "annotated/c.jpg", CapturedAt: 3000, UnknownPresent: true, FaceCount: 1, CreatedAt: 1, UpdatedAt: 1},
	}
	require.NoError(t, db.Create(&events).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlDB
}

func int64ptr(v int64) *int64 { return &v }

func TestSearchEventsUnfiltered(t *testing.T) {
	sqlDB := seedSearchDB(t)

	events, err := SearchEvents(sqlDB, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	// newest capture first
	assert.Equal(t, int64(3000), events[0].CapturedAt)
	assert.Equal(t, int64(1000), events[2].CapturedAt)
}

func TestSearchEventsTimeWindow(t *testing.T) {
	sqlDB := seedSearchDB(t)

	events, err := SearchEvents(sqlDB, EventFilter{Since: int64ptr(1500), Until: int64ptr(2500)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "captures/b.jpg", events[0].CapturePath)
	assert.Equal(t, "Axis", events[0].CameraMake)
	assert.Equal(t, "M3045", events[0].CameraModel)
}

func TestSearchEventsBoundsAreInclusive(t *testing.T) {
	sqlDB := seedSearchDB(t)

	events, err := SearchEvents(sqlDB, EventFilter{Since: int64ptr(1000), Until: int64ptr(3000)})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSearchEventsUnknownOnly(t *testing.T) {
	sqlDB := seedSearchDB(t)

	events, err := SearchEvents(sqlDB, EventFilter{UnknownOnly: true})
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.True(t, ev.UnknownPresent)
	}
}

func TestSearchEventsNoMatches(t *testing.T) {
	sqlDB := seedSearchDB(t)

	events, err := SearchEvents(sqlDB, EventFilter{Since: int64ptr(9000)})
	require.NoError(t, err)
	assert.Empty(t, events)
}
