package recognition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	samples []LabeledSample
	err     error
}

func (s staticSource) ListSamples() ([]LabeledSample, error) {
	return s.samples, s.err
}

func TestTrainFailsOnEmptyCorpus(t *testing.T) {
	trainer := NewTrainer(200)

	_, err := trainer.Train(staticSource{})
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestTrainPropagatesSourceError(t *testing.T) {
	trainer := NewTrainer(200)
	sourceErr := errors.New("bucket unavailable")

	_, err := trainer.Train(staticSource{err: sourceErr})
	assert.ErrorIs(t, err, sourceErr)
}

func TestRetrainFailureKeepsServingClassifier(t *testing.T) {
	handle := NewHandle()
	serving := &Classifier{
		index:         &IdentityIndex{runID: "run-old", labels: map[int]string{0: "alice"}},
		canonicalSize: 200,
	}
	handle.current.Store(serving)

	_, err := handle.Retrain(NewTrainer(200), staticSource{})
	require.ErrorIs(t, err, ErrEmptyCorpus)

	// the failed run must not disturb the published (model, index) pair
	assert.Same(t, serving, handle.Current())
	assert.Equal(t, "run-old", handle.Current().Index().RunID())
}

func TestHandleStartsEmpty(t *testing.T) {
	assert.Nil(t, NewHandle().Current())
}
