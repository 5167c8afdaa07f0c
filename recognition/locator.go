package recognition

import (
	"fmt"
	"image"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Locator finds candidate face bounding boxes in a grayscale image. Ordering
// of the returned candidates is unspecified but stable for a fixed input and
// fixed detector parameters.
type Locator interface {
	Locate(gray gocv.Mat) []FaceCandidate
}

// CascadeLocator runs a Haar cascade over the image at multiple window sizes.
// Detection is purely geometric; identity is decided downstream.
type CascadeLocator struct {
	cascade      gocv.CascadeClassifier
	scaleStep    float64
	minNeighbors int
	minSize      int

	// DetectMultiScale mutates internal cascade state
	mu sync.Mutex
}

// NewCascadeLocator loads the cascade definition from the given XML file.
// scaleStep controls how many detection-window sizes are tried, minNeighbors
// how many overlapping detections must corroborate a box, and minSize the
// smallest face (in pixels) that is kept.
func NewCascadeLocator(cascadePath string, scaleStep float64, minNeighbors, minSize int) (*CascadeLocator, error) {
	if _, err := os.Stat(cascadePath); err != nil {
		return nil, fmt.Errorf("detection: cascade file not accessible at %s: %w", cascadePath, err)
	}

	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("detection: failed to load cascade from %s", cascadePath)
	}
	log.Printf("detection: loaded Haar cascade from %s (scale step %g, min neighbors %d, min size %dpx)",
		cascadePath, scaleStep, minNeighbors, minSize)

	return &CascadeLocator{
		cascade:      cascade,
		scaleStep:    scaleStep,
		minNeighbors: minNeighbors,
		minSize:      minSize,
	}, nil
}

// Locate returns zero or more face bounding boxes found in the grayscale image.
func (l *CascadeLocator) Locate(gray gocv.Mat) []FaceCandidate {
	if gray.Empty() {
		return nil
	}

	l.mu.Lock()
	rects := l.cascade.DetectMultiScaleWithParams(
		gray,
		l.scaleStep,
		l.minNeighbors,
		0,
		image.Pt(l.minSize, l.minSize),
		image.Pt(0, 0),
	)
	l.mu.Unlock()

	candidates := make([]FaceCandidate, 0, len(rects))
	for _, r := range rects {
		candidates = append(candidates, FaceCandidate{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}
	return candidates
}

func (l *CascadeLocator) Close() {
	l.cascade.Close()
}
