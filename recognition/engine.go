package recognition

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"
)

var (
	knownColor   = color.RGBA{0, 200, 0, 0}
	unknownColor = color.RGBA{220, 0, 0, 0}
)

// EngineOptions carries the acceptance policy settings for a decision engine.
type EngineOptions struct {
	// DistanceThreshold is the strict upper bound for accepting a match: a
	// candidate is known iff its identity resolves AND distance < threshold.
	// A distance equal to the threshold is unknown.
	DistanceThreshold float64
}

// Engine orchestrates one recognition pass: locate faces, classify each crop,
// apply the acceptance policy and render the annotated output image.
//
// The engine itself is cheap and holds no model state; the classifier is read
// through the shared Handle so a retrain mid-flight is observed as either the
// complete old pair or the complete new pair, never a mix.
type Engine struct {
	locator Locator
	handle  *Handle
	opts    EngineOptions
}

func NewEngine(locator Locator, handle *Handle, opts EngineOptions) *Engine {
	return &Engine{locator: locator, handle: handle, opts: opts}
}

// Recognize decodes the image bytes, runs detection and classification and
// returns the per-face verdicts plus the annotated JPEG. Undecodable input
// fails with ErrImageDecode and produces no output image.
func (e *Engine) Recognize(data []byte) (*Result, error) {
	// on error IMDecode returns a Mat without a native allocation; it must
	// not be queried with Empty
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, ErrImageDecode
	}
	if img.Empty() {
		img.Close()
		return nil, ErrImageDecode
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	candidates := e.locator.Locate(gray)
	classifier := e.handle.Current()
	if classifier == nil && len(candidates) > 0 {
		log.Printf("recognition: no trained classifier, marking %d face(s) unknown", len(candidates))
	}

	verdicts := make([]Verdict, 0, len(candidates))
	for _, candidate := range candidates {
		verdict, err := e.classifyCandidate(gray, classifier, candidate)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, verdict)
		annotate(&img, verdict, classifier != nil)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("recognition: failed to encode annotated image: %w", err)
	}
	defer buf.Close()
	annotated := append([]byte(nil), buf.GetBytes()...)

	return &Result{
		Verdicts:       verdicts,
		UnknownPresent: anyUnknown(verdicts),
		Annotated:      annotated,
	}, nil
}

// anyUnknown is the aggregate outcome: the OR over all verdicts. An empty
// verdict list aggregates to false, so a frame with no detected faces never
// raises an alert.
func anyUnknown(verdicts []Verdict) bool {
	for _, v := range verdicts {
		if v.Unknown {
			return true
		}
	}
	return false
}

// classifyCandidate crops the candidate region from the grayscale image,
// normalizes it to the canonical size and queries the classifier. With no
// classifier trained the candidate is unknown (degraded mode).
func (e *Engine) classifyCandidate(gray gocv.Mat, classifier *Classifier, candidate FaceCandidate) (Verdict, error) {
	if classifier == nil {
		return Verdict{Unknown: true, Box: candidate}, nil
	}

	region := gray.Region(candidate.Rect())
	defer region.Close()

	crop := gocv.NewMat()
	defer crop.Close()
	size := classifier.CanonicalSize()
	gocv.Resize(region, &crop, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)

	labelID, distance, err := classifier.Classify(crop)
	if err != nil {
		return Verdict{}, err
	}
	return verdictFor(classifier.Index(), labelID, distance, e.opts.DistanceThreshold, candidate), nil
}

// verdictFor applies the acceptance policy: known iff the label-id resolves to
// an enrolled identity AND the distance is strictly below the threshold.
func verdictFor(ix *IdentityIndex, labelID int, distance, threshold float64, box FaceCandidate) Verdict {
	identity, ok := ix.Identity(labelID)
	if !ok || distance >= threshold {
		return Verdict{Distance: distance, Unknown: true, Box: box}
	}
	return Verdict{Identity: identity, Distance: distance, Box: box}
}

// annotate draws the verdict's bounding box and label onto the color image.
func annotate(img *gocv.Mat, v Verdict, haveClassifier bool) {
	col := knownColor
	text := fmt.Sprintf("%s (%.1f)", v.Identity, v.Distance)
	if v.Unknown {
		col = unknownColor
		text = "unknown"
		if haveClassifier {
			text = fmt.Sprintf("unknown (%.1f)", v.Distance)
		}
	}

	rect := v.Box.Rect()
	gocv.Rectangle(img, rect, col, 2)

	textOrigin := image.Pt(rect.Min.X, rect.Min.Y-6)
	if textOrigin.Y < 12 {
		textOrigin = image.Pt(rect.Min.X, rect.Max.Y+16)
	}
	gocv.PutText(img, text, textOrigin, gocv.FontHersheySimplex, 0.5, col, 1)
}
