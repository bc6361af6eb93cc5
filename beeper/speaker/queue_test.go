package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayQueue_RecordsOnlyTransitions(t *testing.T) {
	q := delayQueue{lastLevel: negativeLevel}

	q.push(0.1, negativeLevel) // repeats the initial level
	assert.Equal(t, 0, q.used)

	q.push(0.2, positiveLevel)
	q.push(0.3, positiveLevel) // level hold, not a transition
	q.push(0.4, negativeLevel)
	require.Equal(t, 2, q.used)

	entries := q.drain()
	require.Len(t, entries, 2)
	assert.Equal(t, delayEntry{index: 0.2, level: positiveLevel}, entries[0])
	assert.Equal(t, delayEntry{index: 0.4, level: negativeLevel}, entries[1])
}

func TestDelayQueue_DedupSurvivesDrain(t *testing.T) {
	q := delayQueue{lastLevel: negativeLevel}
	q.push(0.5, positiveLevel)
	q.drain()

	// still at the positive level from before the drain
	q.push(0.1, positiveLevel)
	assert.Equal(t, 0, q.used)
	q.push(0.2, negativeLevel)
	assert.Equal(t, 1, q.used)
}

func TestDelayQueue_OverflowDropsSilently(t *testing.T) {
	q := delayQueue{lastLevel: negativeLevel}
	level := positiveLevel
	for i := 0; i < queueCapacity*3; i++ {
		q.push(float64(i)/float64(queueCapacity*3), level)
		level = -level
	}
	assert.Equal(t, queueCapacity, q.used)

	entries := q.drain()
	assert.Len(t, entries, queueCapacity)
	assert.Equal(t, 0, q.used)
}
