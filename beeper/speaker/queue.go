package speaker

// delayEntry records one output level transition within the current unit.
type delayEntry struct {
	index float64 // fraction of the unit at which the transition happens
	level int16
}

// delayQueue is a fixed-capacity, insertion-ordered list of transitions.
// Pushes arrive in time order by construction. Only transitions are kept:
// a push repeating the previous level is a no-op, and pushes past capacity
// are dropped.
type delayQueue struct {
	entries   [queueCapacity]delayEntry
	used      int
	lastLevel int16
}

func (q *delayQueue) push(index float64, level int16) {
	if level == q.lastLevel {
		return
	}
	q.lastLevel = level
	if q.used == queueCapacity {
		return
	}
	q.entries[q.used] = delayEntry{index: index, level: level}
	q.used++
}

// drain returns the recorded transitions and empties the queue. The
// returned slice aliases internal storage and is only valid until the next
// push. The dedup level survives across drains.
func (q *delayQueue) drain() []delayEntry {
	entries := q.entries[:q.used]
	q.used = 0
	return entries
}
