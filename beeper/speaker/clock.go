package speaker

// Clock reports how far the current emulated millisecond has progressed.
// Every command entering the engine is stamped with this fraction.
type Clock interface {
	// TickFraction returns the position within the current millisecond
	// unit, in [0, 1]. It must be monotonically non-decreasing between
	// drains; RequestSamples ends the unit.
	TickFraction() float64
}

// ManualClock is a Clock the host advances explicitly. The zero value is
// positioned at the start of a unit.
type ManualClock struct {
	fraction float64
}

func (c *ManualClock) TickFraction() float64 { return c.fraction }

// Set positions the clock within the current unit. Values outside [0, 1]
// are clamped.
func (c *ManualClock) Set(fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	c.fraction = fraction
}

// Reset returns the clock to the start of a unit. Hosts call this right
// after draining samples.
func (c *ManualClock) Reset() {
	c.fraction = 0
}
