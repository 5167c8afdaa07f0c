package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecideDoesNotFireWithoutUnknownFaces(t *testing.T) {
	d := Decide(false, EventInfo{
		CapturedAt:  time.Now(),
		CaptureName: "20250101_120000_frame.jpg",
		FaceCount:   2,
	})

	assert.False(t, d.Notify)
	assert.Empty(t, d.Subject)
	assert.Empty(t, d.AttachmentPath)
}

func TestDecideFiresOnUnknownFace(t *testing.T) {
	info := EventInfo{
		CapturedAt:    time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		CaptureName:   "20250314_092653_frame.jpg",
		AnnotatedPath: "/storage/annotated/abc.jpg",
		AnnotatedURL:  "http://localhost:8080/api/annotated/abc.jpg",
		FaceCount:     2,
		UnknownCount:  1,
	}
	d := Decide(true, info)

	assert.True(t, d.Notify)
	assert.Contains(t, d.Subject, "unrecognized person")
	assert.Contains(t, d.Body, "20250314_092653_frame.jpg")
	assert.Contains(t, d.Body, "14/03/2025 09:26:53")
	assert.Contains(t, d.Body, info.AnnotatedURL)
	// the payload always carries the annotated image, never the raw capture
	assert.Equal(t, info.AnnotatedPath, d.AttachmentPath)
}
