package recognition

import (
	"log"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Classifier pairs a trained LBPH model with the identity index of its own
// training run. The pair is immutable after training and safe for concurrent
// Classify calls; retraining builds a whole new Classifier instead of mutating
// this one.
type Classifier struct {
	model         *contrib.LBPHFaceRecognizer
	index         *IdentityIndex
	canonicalSize int
}

// Index returns the identity index built during this classifier's training run.
func (c *Classifier) Index() *IdentityIndex {
	return c.index
}

// CanonicalSize returns the pixel size (square) every face crop must be
// resized to before querying. Queries against crops of any other size or
// colorspace are undefined.
func (c *Classifier) CanonicalSize() int {
	return c.canonicalSize
}

// Classify returns the nearest-neighbor label-id and its distance for a
// grayscale face crop already at canonical size. Lower distance means a
// closer match. A predicted label-id missing from the paired index is a
// ClassifierMismatchError.
func (c *Classifier) Classify(faceCrop gocv.Mat) (int, float64, error) {
	resp := c.model.PredictExtendedResponse(faceCrop)
	labelID := int(resp.Label)
	distance := float64(resp.Confidence)

	if _, ok := c.index.Identity(labelID); !ok {
		return 0, 0, &ClassifierMismatchError{LabelID: labelID, RunID: c.index.RunID()}
	}
	return labelID, distance, nil
}

// Handle is the single-writer, multi-reader holder for the currently serving
// classifier. Readers get a consistent (model, index) pair via Current;
// Replace swaps the pair as one unit. A nil current classifier means degraded
// mode: every face is classified unknown.
type Handle struct {
	current atomic.Pointer[Classifier]
	trainMu sync.Mutex
}

func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the serving classifier, or nil when none is trained.
func (h *Handle) Current() *Classifier {
	return h.current.Load()
}

// Retrain builds a new classifier from the source and publishes it
// atomically. Concurrent retrains are serialized; a failed training run
// leaves the currently serving classifier untouched.
func (h *Handle) Retrain(trainer *Trainer, src SampleSource) (*Classifier, error) {
	h.trainMu.Lock()
	defer h.trainMu.Unlock()

	classifier, err := trainer.Train(src)
	if err != nil {
		return nil, err
	}

	// the previous model is not freed here: recognize calls in flight may
	// legitimately still be reading it
	h.current.Store(classifier)
	log.Printf("recognition: published classifier from training run %s (%d identities)",
		classifier.index.RunID(), classifier.index.Len())
	return classifier, nil
}
