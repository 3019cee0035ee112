package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptRingEvictsOldest(t *testing.T) {
	var r attemptRing

	assert.Empty(t, r.recent())

	for i := 0; i < 3; i++ {
		r.push(Attempt{Value: fmt.Sprintf("a%d", i), WorkerID: i})
	}
	recent := r.recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "a0", recent[0].Value)
	assert.Equal(t, "a2", recent[2].Value)

	for i := 3; i < 25; i++ {
		r.push(Attempt{Value: fmt.Sprintf("a%d", i), WorkerID: i})
	}
	recent = r.recent()
	require.Len(t, recent, historySize)
	assert.Equal(t, "a15", recent[0].Value)
	assert.Equal(t, "a24", recent[historySize-1].Value)
}
