// Package timing paces the playback loop to real time.
package timing

import "time"

// Pacer controls the cadence of the unit production loop.
type Pacer interface {
	// WaitForNextUnit blocks until the next millisecond unit is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextUnit()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// UnitDuration is the length of one emulated unit of speaker output.
const UnitDuration = time.Millisecond

// NewNoOpPacer returns a pacer that doesn't pace (for batch rendering).
func NewNoOpPacer() Pacer {
	return &noOpPacer{}
}

type noOpPacer struct{}

func (n *noOpPacer) WaitForNextUnit() {}
func (n *noOpPacer) Reset()           {}
