package recognition

import (
	"errors"
	"fmt"
)

// ErrImageDecode is returned when input bytes cannot be decoded as a raster
// image. Callers must not proceed to classification and must not record an
// event for the input.
var ErrImageDecode = errors.New("recognition: image data could not be decoded")

// ErrEmptyCorpus is returned when a training run finds no readable samples.
// Unless the service explicitly opts into degraded mode, this is fatal at
// startup: the service must not silently run with no enrolled identities.
var ErrEmptyCorpus = errors.New("recognition: enrollment corpus contains no readable samples")

// ClassifierMismatchError reports a predicted label-id that does not exist in
// the identity index paired with the model. The pair is always published
// together, so this indicates corruption and must fail loudly rather than
// misattribute an identity.
type ClassifierMismatchError struct {
	LabelID int
	RunID   string
}

func (e *ClassifierMismatchError) Error() string {
	return fmt.Sprintf("recognition: label id %d not present in identity index of training run %s", e.LabelID, e.RunID)
}
