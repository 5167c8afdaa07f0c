package recognition

import (
	"fmt"
	"image"
	"log"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Trainer builds an appearance classifier from a labeled sample corpus in a
// single batch pass. Retraining always rebuilds from the full corpus; there is
// no incremental update.
type Trainer struct {
	CanonicalSize int
}

func NewTrainer(canonicalSize int) *Trainer {
	return &Trainer{CanonicalSize: canonicalSize}
}

// Train decodes every sample, normalizes it to a grayscale crop at canonical
// size, assigns one integer label-id per identity and fits the LBPH model.
// Unreadable samples are logged and skipped; a corpus with zero usable samples
// fails with ErrEmptyCorpus.
func (t *Trainer) Train(src SampleSource) (*Classifier, error) {
	samples, err := src.ListSamples()
	if err != nil {
		return nil, fmt.Errorf("training: failed to list corpus samples: %w", err)
	}

	var (
		mats     []gocv.Mat
		labelIDs []int
	)
	defer func() {
		for i := range mats {
			mats[i].Close()
		}
	}()

	idByIdentity := make(map[string]int)
	labels := make(map[int]string)
	skipped := 0

	for _, sample := range samples {
		img, err := gocv.IMDecode(sample.Data, gocv.IMReadGrayScale)
		if err != nil {
			log.Printf("training: Warning - skipping unreadable sample %s for identity %q: %v", sample.Name, sample.Identity, err)
			skipped++
			continue
		}
		if img.Empty() {
			img.Close()
			log.Printf("training: Warning - skipping undecodable sample %s for identity %q", sample.Name, sample.Identity)
			skipped++
			continue
		}

		normalized := gocv.NewMat()
		gocv.Resize(img, &normalized, image.Pt(t.CanonicalSize, t.CanonicalSize), 0, 0, gocv.InterpolationLinear)
		img.Close()

		labelID, ok := idByIdentity[sample.Identity]
		if !ok {
			labelID = len(idByIdentity)
			idByIdentity[sample.Identity] = labelID
			labels[labelID] = sample.Identity
		}

		mats = append(mats, normalized)
		labelIDs = append(labelIDs, labelID)
	}

	if len(mats) == 0 {
		return nil, ErrEmptyCorpus
	}

	model := contrib.NewLBPHFaceRecognizer()
	if err := model.Train(mats, labelIDs); err != nil {
		return nil, fmt.Errorf("training: LBPH train failed: %w", err)
	}

	runID := uuid.NewString()
	log.Printf("training: run %s trained on %d sample(s) across %d identit(ies), %d skipped",
		runID, len(mats), len(labels), skipped)

	return &Classifier{
		model:         model,
		index:         &IdentityIndex{runID: runID, labels: labels},
		canonicalSize: t.CanonicalSize,
	}, nil
}
