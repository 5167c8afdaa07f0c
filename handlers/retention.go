package handlers

import (
	"log"
	"net/http"

	"github.com/perimeterlab/sentrybackend/media"
)

// RetentionHandler triggers the file retention sweep on demand; the same sweep
// also runs on the configured cron schedule.
type RetentionHandler struct {
	Sweeper *media.RetentionSweeper
}

// TriggerSweep handles POST /api/retention/sweep
func (rh *RetentionHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	removed, err := rh.Sweeper.Sweep()
	if err != nil {
		log.Printf("Error running retention sweep: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "sweep_failed", "retention sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "retention sweep complete",
		"removed": removed,
	})
}
