package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/perimeterlab/sentrybackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// EventFilter narrows a detection event search. Nil bounds are open-ended;
// timestamps compare against captured_at.
type EventFilter struct {
	Since       *int64
	Until       *int64
	UnknownOnly bool
}

// SearchEvents runs a filtered query over the detection_events table using the
// raw sql.DB underneath GORM. Results are ordered newest first.
func SearchEvents(db *sql.DB, filter EventFilter) ([]models.DetectionEvent, error) {
	queryBuilder := psql.Select(
		"id", "capture_path", "annotated_path", "preview_path",
		"captured_at", "unknown_present", "face_count",
		"camera_make", "camera_model", "created_at", "updated_at",
	).
		From("detection_events").
		OrderBy("captured_at DESC, id DESC")

	if filter.Since != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"captured_at": *filter.Since})
	}
	if filter.Until != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"captured_at": *filter.Until})
	}
	if filter.UnknownOnly {
		queryBuilder = queryBuilder.Where(sq.Eq{"unknown_present": true})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for SearchEvents: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query detection events: %w", err)
	}
	defer rows.Close()

	events := []models.DetectionEvent{}
	for rows.Next() {
		var ev models.DetectionEvent
		var preview, cameraMake, cameraModel sql.NullString
		err := rows.Scan(
			&ev.ID, &ev.CapturePath, &ev.AnnotatedPath, &preview,
			&ev.CapturedAt, &ev.UnknownPresent, &ev.FaceCount,
			&cameraMake, &cameraModel, &ev.CreatedAt, &ev.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detection event row: %w", err)
		}
		ev.PreviewPath = preview.String
		ev.CameraMake = cameraMake.String
		ev.CameraModel = cameraModel.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detection event rows: %w", err)
	}
	return events, nil
}
