package recognition

import "image"

// FaceCandidate is an axis-aligned bounding box produced by a Locator for one
// detected face within a source image. It carries no identity information.
type FaceCandidate struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the candidate to an image.Rectangle for cropping and drawing.
func (c FaceCandidate) Rect() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Verdict is the classification outcome for a single face candidate.
// Unknown is true iff no identity resolved for the predicted label-id OR the
// distance reached the acceptance threshold. Distance follows nearest-neighbor
// semantics: lower means a closer match, it is not a probability.
type Verdict struct {
	Identity string        `json:"identity,omitempty"`
	Distance float64       `json:"distance"`
	Unknown  bool          `json:"unknown"`
	Box      FaceCandidate `json:"box"`
}

// Result is the outcome of one full recognition pass over a single image.
// UnknownPresent is the OR over all verdicts; an image with zero detected
// faces yields false and therefore no alert.
type Result struct {
	Verdicts       []Verdict
	UnknownPresent bool
	Annotated      []byte // JPEG with boxes, labels and scores burned in
}

// LabeledSample is one enrollment image tagged with its identity label. It
// exists only while a training run consumes the corpus.
type LabeledSample struct {
	Identity string
	Name     string // source name, used in skip warnings
	Data     []byte // encoded image bytes
}

// SampleSource supplies the labeled enrollment corpus to the Trainer. The
// directory-backed implementation is DirectoryCorpus; other backends (object
// storage, database) only need to produce the same sample slice.
type SampleSource interface {
	ListSamples() ([]LabeledSample, error)
}
