package repository

import (
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/perimeterlab/sentrybackend/models"
)

// EventRepository handles database operations for DetectionEvent entities
type EventRepository struct {
	DB *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Create inserts a new detection event record
func (r *EventRepository) Create(event *models.DetectionEvent) error {
	now := time.Now().Unix()
	if event.CreatedAt == 0 {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if event.CapturedAt == 0 {
		event.CapturedAt = now
	}
	event.CapturePath = filepath.ToSlash(event.CapturePath)
	event.AnnotatedPath = filepath.ToSlash(event.AnnotatedPath)
	event.PreviewPath = filepath.ToSlash(event.PreviewPath)

	err := r.DB.Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to create detection event for capture %s: %w", event.CapturePath, err)
	}
	return nil
}

// GetByID retrieves a detection event by its ID
func (r *EventRepository) GetByID(id uint) (*models.DetectionEvent, error) {
	var event models.DetectionEvent
	err := r.DB.First(&event, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get detection event by ID %d: %w", id, err)
	}
	return &event, nil
}

// ListAll retrieves every detection event, newest capture first
func (r *EventRepository) ListAll() ([]models.DetectionEvent, error) {
	var events []models.DetectionEvent
	err := r.DB.Order("captured_at DESC, id DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list detection events: %w", err)
	}
	return events, nil
}

// Delete removes a detection event by its ID
func (r *EventRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.DetectionEvent{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete detection event ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every detection event and returns the deleted rows so the
// caller can clean up associated image files
func (r *EventRepository) DeleteAll() ([]models.DetectionEvent, error) {
	var events []models.DetectionEvent
	if err := r.DB.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load detection events before delete: %w", err)
	}
	if len(events) == 0 {
		return events, nil
	}
	if err := r.DB.Where("1 = 1").Delete(&models.DetectionEvent{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete all detection events: %w", err)
	}
	return events, nil
}
