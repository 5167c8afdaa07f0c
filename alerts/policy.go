package alerts

import (
	"fmt"
	"time"
)

// Decision is the outcome of the alert policy for one detection event: whether
// to notify the operator and, if so, with what rendered payload. It is derived
// fresh each time and holds no state.
type Decision struct {
	Notify         bool
	Subject        string
	Body           string
	AttachmentPath string // absolute path of the annotated image, never the raw capture
}

// EventInfo carries the fields of a completed detection event that the alert
// payload renders.
type EventInfo struct {
	CapturedAt    time.Time
	CaptureName   string
	AnnotatedPath string // absolute filesystem path, used as attachment
	AnnotatedURL  string // public link served by the backend
	FaceCount     int
	UnknownCount  int
}

// Decide maps a recognition outcome to an alert decision. An alert fires iff
// at least one face in the image was classified unknown; an image with no
// detected faces never alerts.
func Decide(unknownPresent bool, info EventInfo) Decision {
	if !unknownPresent {
		return Decision{}
	}

	subject := "Security alert - unrecognized person detected"
	body := fmt.Sprintf(
		"A security alert was raised at %s.\n\n"+
			"Details:\n"+
			"- Capture: %s\n"+
			"- Faces detected: %d\n"+
			"- Unrecognized faces: %d\n\n"+
			"The annotated image is attached and can also be viewed here:\n%s\n\n"+
			"Please review immediately.\n",
		info.CapturedAt.Format("02/01/2006 15:04:05"),
		info.CaptureName,
		info.FaceCount,
		info.UnknownCount,
		info.AnnotatedURL,
	)

	return Decision{
		Notify:         true,
		Subject:        subject,
		Body:           body,
		AttachmentPath: info.AnnotatedPath,
	}
}
