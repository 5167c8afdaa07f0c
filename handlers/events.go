package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/perimeterlab/sentrybackend/database"
	"github.com/perimeterlab/sentrybackend/media"
	"github.com/perimeterlab/sentrybackend/models"
	"github.com/perimeterlab/sentrybackend/repository"
)

// EventHandler serves the detection event log.
type EventHandler struct {
	Repo  repository.EventRepositoryInterface
	SQLDB *sql.DB // raw connection for filtered search queries
	Store *media.LocalStorage
}

// ListEvents handles GET /api/events. Optional query parameters narrow the
// result: since/until (Unix seconds, against captured_at) and unknown_only.
func (eh *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := database.EventFilter{}
	filtered := false

	if raw := query.Get("since"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_since", "'since' must be a Unix timestamp in seconds")
			return
		}
		filter.Since = &ts
		filtered = true
	}
	if raw := query.Get("until"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_until", "'until' must be a Unix timestamp in seconds")
			return
		}
		filter.Until = &ts
		filtered = true
	}
	if raw := query.Get("unknown_only"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_unknown_only", "'unknown_only' must be a boolean")
			return
		}
		filter.UnknownOnly = val
		filtered = filtered || val
	}

	var (
		events []models.DetectionEvent
		err    error
	)
	if filtered {
		events, err = database.SearchEvents(eh.SQLDB, filter)
	} else {
		events, err = eh.Repo.ListAll()
	}
	if err != nil {
		log.Printf("Error listing detection events: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list detection events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{event_id}
func (eh *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	event, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeAPIError(w, http.StatusNotFound, "event_not_found", "no detection event with that id")
			return
		}
		log.Printf("Error fetching detection event %d: %v", id, err)
		writeAPIError(w, http.StatusInternalServerError, "get_failed", "failed to fetch detection event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{event_id}. The event's stored image
// files are removed along with the record.
func (eh *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	event, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeAPIError(w, http.StatusNotFound, "event_not_found", "no detection event with that id")
			return
		}
		log.Printf("Error fetching detection event %d before delete: %v", id, err)
		writeAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete detection event")
		return
	}

	if err := eh.Repo.Delete(id); err != nil {
		log.Printf("Error deleting detection event %d: %v", id, err)
		writeAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete detection event")
		return
	}
	eh.removeEventFiles(*event)

	writeJSON(w, http.StatusOK, map[string]string{"message": "detection event deleted"})
}

// DeleteAllEvents handles DELETE /api/events
func (eh *EventHandler) DeleteAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := eh.Repo.DeleteAll()
	if err != nil {
		log.Printf("Error deleting all detection events: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete detection events")
		return
	}
	for _, event := range events {
		eh.removeEventFiles(event)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "all detection events deleted",
		"deleted": len(events),
	})
}

func (eh *EventHandler) removeEventFiles(event models.DetectionEvent) {
	for _, relPath := range []string{event.CapturePath, event.AnnotatedPath, event.PreviewPath} {
		if err := eh.Store.Delete(relPath); err != nil {
			log.Printf("Warning: failed to delete file %s for event %d: %v", relPath, event.ID, err)
		}
	}
}

func eventIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "event_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_event_id", "event_id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
