package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/perimeterlab/sentrybackend/media"
	"github.com/perimeterlab/sentrybackend/recognition"
	"github.com/perimeterlab/sentrybackend/workers"
)

const maxUploadBytes = 32 << 20

// CaptureHandler accepts uploaded camera frames and hands them to the
// recognition worker pool.
type CaptureHandler struct {
	Store     *media.LocalStorage
	Processor *workers.CaptureProcessor
}

// UploadCapture handles POST /api/captures. The multipart field "image" must
// decode as a raster image; undecodable input is rejected with no stored file,
// no event and no alert. Valid captures are stored and queued, and the
// response reports the queued capture path.
func (ch *CaptureHandler) UploadCapture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_form", "failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "missing_image", "multipart field 'image' is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeAPIError(w, http.StatusBadRequest, "empty_filename", "uploaded file has no name")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading upload %s: %v", header.Filename, err)
		writeAPIError(w, http.StatusInternalServerError, "read_failed", "failed to read uploaded image")
		return
	}

	if err := recognition.ValidateImage(data); err != nil {
		if errors.Is(err, recognition.ErrImageDecode) {
			writeAPIError(w, http.StatusUnprocessableEntity, "undecodable_image", "uploaded bytes are not a decodable image")
			return
		}
		log.Printf("Error validating upload %s: %v", header.Filename, err)
		writeAPIError(w, http.StatusInternalServerError, "validation_failed", "failed to validate uploaded image")
		return
	}

	uploadedAt := time.Now()
	filename := uploadedAt.Format("20060102_150405") + "_" + filepath.Base(header.Filename)
	captureRelPath, err := ch.Store.Save(media.AssetTypeCapture, filename, bytes.NewReader(data))
	if err != nil {
		log.Printf("Error storing capture %s: %v", filename, err)
		writeAPIError(w, http.StatusInternalServerError, "store_failed", "failed to store capture")
		return
	}

	queued := ch.Processor.QueueCapture(workers.CaptureJob{
		CaptureRelPath: captureRelPath,
		UploadedAt:     uploadedAt,
	})
	if !queued {
		// keep the stored file; the capture can be re-submitted
		writeAPIError(w, http.StatusServiceUnavailable, "queue_full", "recognition queue is full, try again later")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"capture_path": captureRelPath,
		"status":       "queued",
	})
}
