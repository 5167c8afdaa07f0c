package recognition

import (
	"github.com/facette/natsort"
)

// IdentityIndex maps the integer label-ids assigned during one training run
// back to identity labels. It is built once per run, never mutated afterwards,
// and only ever replaced together with the model it was trained with.
type IdentityIndex struct {
	runID  string
	labels map[int]string
}

// RunID returns the unique id of the training run that produced this index.
func (ix *IdentityIndex) RunID() string {
	return ix.runID
}

// Identity resolves a label-id to its identity label.
func (ix *IdentityIndex) Identity(labelID int) (string, bool) {
	name, ok := ix.labels[labelID]
	return name, ok
}

// Len returns the number of enrolled identities.
func (ix *IdentityIndex) Len() int {
	return len(ix.labels)
}

// Identities returns all enrolled identity labels in natural sort order.
func (ix *IdentityIndex) Identities() []string {
	names := make([]string, 0, len(ix.labels))
	for _, name := range ix.labels {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}
