package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

type noFaceLocator struct{}

func (noFaceLocator) Locate(gray gocv.Mat) []FaceCandidate { return nil }

func testIndex() *IdentityIndex {
	return &IdentityIndex{
		runID:  "run-1",
		labels: map[int]string{0: "alice", 1: "bob"},
	}
}

func TestVerdictForAcceptsCloseMatch(t *testing.T) {
	box := FaceCandidate{X: 10, Y: 20, Width: 100, Height: 100}
	v := verdictFor(testIndex(), 0, 12.5, 50, box)

	assert.False(t, v.Unknown)
	assert.Equal(t, "alice", v.Identity)
	assert.Equal(t, 12.5, v.Distance)
	assert.Equal(t, box, v.Box)
}

func TestVerdictForRejectsAtExactThreshold(t *testing.T) {
	// the acceptance bound is strict: distance == threshold is unknown
	v := verdictFor(testIndex(), 0, 50, 50, FaceCandidate{})

	assert.True(t, v.Unknown)
	assert.Empty(t, v.Identity)
	assert.Equal(t, 50.0, v.Distance)
}

func TestVerdictForRejectsAboveThreshold(t *testing.T) {
	v := verdictFor(testIndex(), 1, 87.3, 50, FaceCandidate{})

	assert.True(t, v.Unknown)
	assert.Empty(t, v.Identity)
}

func TestVerdictForRejectsUnmappedLabel(t *testing.T) {
	// even a confident distance cannot resolve a label-id the index does not know
	v := verdictFor(testIndex(), 7, 1.0, 50, FaceCandidate{})

	assert.True(t, v.Unknown)
	assert.Empty(t, v.Identity)
}

func TestAnyUnknownAggregatesWithOr(t *testing.T) {
	known := Verdict{Identity: "alice", Distance: 10}
	unknown := Verdict{Unknown: true, Distance: 90}

	assert.False(t, anyUnknown(nil), "zero detected faces must not alert")
	assert.False(t, anyUnknown([]Verdict{known, known}))
	assert.True(t, anyUnknown([]Verdict{known, unknown}))
	assert.True(t, anyUnknown([]Verdict{unknown}))
}

func TestRecognizeRejectsEmptyInput(t *testing.T) {
	engine := NewEngine(noFaceLocator{}, NewHandle(), EngineOptions{DistanceThreshold: 50})

	result, err := engine.Recognize(nil)
	assert.ErrorIs(t, err, ErrImageDecode)
	assert.Nil(t, result)

	result, err = engine.Recognize([]byte{})
	assert.ErrorIs(t, err, ErrImageDecode)
	assert.Nil(t, result)
}

func TestFaceCandidateRect(t *testing.T) {
	c := FaceCandidate{X: 5, Y: 6, Width: 30, Height: 40}
	r := c.Rect()

	assert.Equal(t, 5, r.Min.X)
	assert.Equal(t, 6, r.Min.Y)
	assert.Equal(t, 35, r.Max.X)
	assert.Equal(t, 46, r.Max.Y)
}
