package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityIndexLookup(t *testing.T) {
	ix := &IdentityIndex{runID: "run-42", labels: map[int]string{0: "alice", 1: "bob"}}

	name, ok := ix.Identity(1)
	assert.True(t, ok)
	assert.Equal(t, "bob", name)

	_, ok = ix.Identity(99)
	assert.False(t, ok)

	assert.Equal(t, "run-42", ix.RunID())
	assert.Equal(t, 2, ix.Len())
}

func TestIdentityIndexIdentitiesNaturalOrder(t *testing.T) {
	ix := &IdentityIndex{labels: map[int]string{
		0: "guard10",
		1: "guard2",
		2: "alice",
	}}

	assert.Equal(t, []string{"alice", "guard2", "guard10"}, ix.Identities())
}
