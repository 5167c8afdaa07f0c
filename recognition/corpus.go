package recognition

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/facette/natsort"

	"github.com/perimeterlab/sentrybackend/media"
)

// DirectoryCorpus reads enrollment samples from a directory-of-directories:
// each immediate subdirectory name is an identity label and its files are that
// identity's face images.
type DirectoryCorpus struct {
	Root string
}

// IdentitySummary describes one enrolled identity as found on disk.
type IdentitySummary struct {
	Name        string `json:"name"`
	SampleCount int    `json:"sample_count"`
}

// ListSamples loads every raster image under every identity subdirectory.
// Files that cannot be read are logged and skipped; decode failures are left
// to the Trainer.
func (d DirectoryCorpus) ListSamples() ([]LabeledSample, error) {
	identities, err := d.identityDirs()
	if err != nil {
		return nil, err
	}

	var samples []LabeledSample
	for _, identity := range identities {
		identityDir := filepath.Join(d.Root, identity)
		files, err := os.ReadDir(identityDir)
		if err != nil {
			log.Printf("corpus: Warning - failed to read identity directory %s: %v", identityDir, err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !media.IsRasterImage(file.Name()) {
				continue
			}
			path := filepath.Join(identityDir, file.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("corpus: Warning - failed to read sample %s: %v", path, err)
				continue
			}
			samples = append(samples, LabeledSample{
				Identity: identity,
				Name:     filepath.ToSlash(filepath.Join(identity, file.Name())),
				Data:     data,
			})
		}
	}
	return samples, nil
}

// Summary lists the enrolled identities and their sample counts without
// loading any image data.
func (d DirectoryCorpus) Summary() ([]IdentitySummary, error) {
	identities, err := d.identityDirs()
	if err != nil {
		return nil, err
	}

	summaries := make([]IdentitySummary, 0, len(identities))
	for _, identity := range identities {
		files, err := os.ReadDir(filepath.Join(d.Root, identity))
		if err != nil {
			log.Printf("corpus: Warning - failed to read identity directory %s: %v", identity, err)
			continue
		}
		count := 0
		for _, file := range files {
			if !file.IsDir() && media.IsRasterImage(file.Name()) {
				count++
			}
		}
		summaries = append(summaries, IdentitySummary{Name: identity, SampleCount: count})
	}
	return summaries, nil
}

func (d DirectoryCorpus) identityDirs() ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("corpus: failed to read corpus root %s: %w", d.Root, err)
	}

	var identities []string
	for _, entry := range entries {
		if entry.IsDir() {
			identities = append(identities, entry.Name())
		}
	}
	natsort.Sort(identities)
	return identities, nil
}
