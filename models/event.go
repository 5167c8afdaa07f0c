package models

// DetectionEvent is the persisted record of one analyzed capture. Rows are
// immutable once written except for deletion.
// It corresponds to the 'detection_events' table.
type DetectionEvent struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CapturePath    string `gorm:"not null;index" json:"capture_path"`
	AnnotatedPath  string `gorm:"not null" json:"annotated_path"`
	PreviewPath    string `json:"preview_path,omitempty"`
	CapturedAt     int64  `gorm:"not null;index" json:"captured_at"` // Unix timestamp; EXIF DateTime when present, else upload time
	UnknownPresent bool   `gorm:"not null;index" json:"unknown_present"`
	FaceCount      int    `gorm:"not null" json:"face_count"`
	CameraMake     string `json:"camera_make,omitempty"`
	CameraModel    string `json:"camera_model,omitempty"`
	CreatedAt      int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt      int64  `gorm:"not null" json:"updated_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (DetectionEvent) TableName() string {
	return "detection_events"
}
