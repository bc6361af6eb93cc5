package timing

import (
	"log/slog"
	"time"
)

// AdaptivePacer uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy; at a 1 ms
// cadence the scheduler alone is too coarse.
type AdaptivePacer struct {
	targetUnitTime time.Duration
	nextUnitTime   time.Time
	unitCounter    int64
}

func NewAdaptivePacer() *AdaptivePacer {
	return &AdaptivePacer{
		targetUnitTime: UnitDuration,
		nextUnitTime:   time.Now(),
	}
}

func (a *AdaptivePacer) WaitForNextUnit() {
	now := time.Now()
	sleepTime := a.nextUnitTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 500*time.Microsecond {
			for time.Now().Before(a.nextUnitTime) {
				// busy-wait for short remainders, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - 250*time.Microsecond)
			for time.Now().Before(a.nextUnitTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextUnitTime = now
	}

	a.nextUnitTime = a.nextUnitTime.Add(a.targetUnitTime)
	a.unitCounter++

	if a.unitCounter%1000 == 0 {
		drift := time.Since(a.nextUnitTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextUnitTime = a.nextUnitTime.Add(drift / 10)
			slog.Debug("unit timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptivePacer) Reset() {
	a.nextUnitTime = time.Now()
	a.unitCounter = 0
}
