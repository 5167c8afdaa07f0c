package repository

import (
	"github.com/perimeterlab/sentrybackend/models"
)

// EventRepositoryInterface defines the operations for DetectionEvent persistence
type EventRepositoryInterface interface {
	Create(event *models.DetectionEvent) error
	GetByID(id uint) (*models.DetectionEvent, error)
	ListAll() ([]models.DetectionEvent, error)
	Delete(id uint) error
	DeleteAll() ([]models.DetectionEvent, error)
}
