package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/perimeterlab/sentrybackend/recognition"
)

// RecognizerHandler exposes the enrollment corpus and explicit retraining.
type RecognizerHandler struct {
	Handle  *recognition.Handle
	Trainer *recognition.Trainer
	Corpus  recognition.DirectoryCorpus
}

// ListIdentities handles GET /api/identities, returning the identities found
// in the enrollment corpus with their sample counts.
func (rh *RecognizerHandler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	summaries, err := rh.Corpus.Summary()
	if err != nil {
		log.Printf("Error summarizing enrollment corpus: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "corpus_failed", "failed to read enrollment corpus")
		return
	}

	response := map[string]interface{}{
		"identities": summaries,
	}
	if classifier := rh.Handle.Current(); classifier != nil {
		response["training_run"] = classifier.Index().RunID()
		response["trained_identities"] = classifier.Index().Identities()
	} else {
		response["training_run"] = nil
	}
	writeJSON(w, http.StatusOK, response)
}

// Retrain handles POST /api/recognizer/retrain. Training is all-or-nothing: a
// failed run reports an error and the previously trained classifier keeps
// serving.
func (rh *RecognizerHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	classifier, err := rh.Handle.Retrain(rh.Trainer, rh.Corpus)
	if err != nil {
		if errors.Is(err, recognition.ErrEmptyCorpus) {
			writeAPIError(w, http.StatusConflict, "empty_corpus", "enrollment corpus contains no readable samples; previous classifier kept")
			return
		}
		log.Printf("Error retraining classifier: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "retrain_failed", "classifier retraining failed; previous classifier kept")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "classifier retrained",
		"training_run": classifier.Index().RunID(),
		"identities":   classifier.Index().Identities(),
	})
}
