// Package speaker emulates the PC speaker: PIT channel 2 programming in,
// band-limited PCM out. Commands and sample requests must not run
// concurrently against the same engine; hosts with separate audio and
// emulation contexts serialize both entry points under one lock.
package speaker

import (
	"log/slog"
	"math"
)

// Config holds construction parameters for a Speaker engine.
type Config struct {
	// Rate is the output sample rate in Hz. Values below 8000 are clamped
	// up; the rate is fixed for the lifetime of the engine.
	Rate int

	// Clock stamps every command with its position inside the current
	// millisecond unit. Defaults to a ManualClock resting at zero.
	Clock Clock

	// ReferenceSynthesis renders edges by evaluating the windowed sinc
	// directly instead of through the phase table. Far slower; only
	// useful for validating the table offline.
	ReferenceSynthesis bool
}

// Speaker is the synthesis engine. It owns the timer state machine, the
// per-unit edge queue, the impulse kernel and the rolling accumulator,
// and produces one block of PCM per millisecond unit on demand.
type Speaker struct {
	clock      Clock
	rate       int
	ratePerMS  float64
	minCounter int
	reference  bool

	pit    pitState
	queue  delayQueue
	kernel *impulseKernel

	// accumulator carries impulse tails that ring past the current unit
	// into the next one. Length filterQuality + rate/1000 + 1.
	accumulator []float64

	// level is the leaky integrator turning impulses into output steps.
	// It persists across drains; resetting it would thump at every
	// buffer boundary.
	level float64
}

// New builds an engine in the hardware power-on state: mode 3 with the
// BIOS default counter (~903 Hz), gate off, output high.
func New(cfg Config) *Speaker {
	rate := cfg.Rate
	if rate < minRate {
		rate = minRate
	}
	clock := cfg.Clock
	if clock == nil {
		clock = &ManualClock{}
	}

	s := &Speaker{
		clock:     clock,
		rate:      rate,
		ratePerMS: float64(rate) / 1000,
		// Square wave periods shorter than about two output samples
		// cannot be represented; counters below this fall back to the
		// forced-high mode.
		minCounter:  2 * pitTickRate / rate,
		reference:   cfg.ReferenceSynthesis,
		kernel:      newImpulseKernel(rate),
		accumulator: make([]float64, filterQuality+rate/1000+1),
		queue:       delayQueue{lastLevel: negativeLevel},
	}
	s.pit = pitState{
		mode:                   modeSquareWave,
		outputLevel:            positiveLevel,
		mode1WaitingForTrigger: true,
		max:                    msPerPITTick * powerOnCounter,
		half:                   msPerPITTick * powerOnCounter / 2,
		newMax:                 msPerPITTick * powerOnCounter,
		newHalf:                msPerPITTick * powerOnCounter / 2,
	}
	slog.Debug("speaker engine ready",
		"rate", rate, "min_counter", s.minCounter, "buffer", len(s.accumulator))
	return s
}

// Rate returns the output sample rate the engine was built with.
func (s *Speaker) Rate() int { return s.rate }

// MinimumCounter returns the smallest mode 3 reload value the output rate
// can represent. It is derived from the rate at construction.
func (s *Speaker) MinimumCounter() int { return s.minCounter }

// Mode returns the current timer mode, for diagnostics.
func (s *Speaker) Mode() uint8 { return s.pit.mode }

// OutputHigh reports whether the logical timer output is at the high
// level, for diagnostics.
func (s *Speaker) OutputHigh() bool { return s.pit.outputLevel == positiveLevel }

// CounterForFrequency returns the reload value producing a square wave of
// the given frequency.
func CounterForFrequency(hz int) int {
	if hz <= 0 {
		return 0
	}
	return pitTickRate / hz
}

// SetControlWord programs a new operating mode for the speaker channel.
func (s *Speaker) SetControlWord(mode uint8) {
	s.pit.setControlWord(mode, s.clock.TickFraction(), &s.queue)
}

// SetCounter programs the channel reload value together with its mode.
// The counter is a 16-bit-range tick count; its duration is
// count * (1000 / pitTickRate) milliseconds.
func (s *Speaker) SetCounter(count int, mode uint8) {
	s.pit.setCounter(count, mode, s.minCounter, s.clock.TickFraction(), &s.queue)
}

// SetGateAndOutput drives the two speaker control bits: the timer gate
// and whether the timer output reaches the line at all.
func (s *Speaker) SetGateAndOutput(gateEnabled, outputEnabled bool) {
	s.pit.setGate(gateEnabled, outputEnabled, s.clock.TickFraction(), &s.queue)
}

// RequestSamples finishes the current millisecond unit and fills buf with
// signed PCM: the timer is forwarded to the end of the unit, queued edges
// are rendered through the kernel, and len(buf) samples are drained from
// the accumulator. It returns len(buf). A request larger than the
// accumulator is a host misconfiguration; the excess is emitted as
// silence.
func (s *Speaker) RequestSamples(buf []int16) int {
	s.pit.forward(1.0, &s.queue)
	s.pit.lastIndex = 0

	for _, e := range s.queue.drain() {
		index := e.index
		if index < 0 {
			index = 0
		} else if index > 1 {
			index = 1
		}
		s.addImpulse(index, float64(e.level))
	}

	out := buf
	n := len(buf)
	if n > len(s.accumulator) {
		slog.Warn("speaker: sink requested more samples than one unit holds",
			"requested", n, "capacity", len(s.accumulator))
		excess := n - len(s.accumulator)
		for i := 0; i < excess; i++ {
			out[i] = 0
		}
		out = out[excess:]
		n = len(s.accumulator)
	}

	for i := 0; i < n; i++ {
		s.level += s.accumulator[i]
		out[i] = clampSample(s.level)
		s.level *= highpassCoefficient
	}

	// roll consumed slots out and zero the vacated tail
	copy(s.accumulator, s.accumulator[n:])
	for i := len(s.accumulator) - n; i < len(s.accumulator); i++ {
		s.accumulator[i] = 0
	}
	return len(buf)
}

// addImpulse renders one edge into the accumulator: a copy of the kernel
// scaled by the level, offset by the edge's position converted to samples,
// using the nearest tabulated sub-sample phase.
func (s *Speaker) addImpulse(index, amplitude float64) {
	if s.reference {
		portionOfMS := index / 1000
		for i := range s.accumulator {
			t := float64(i)/float64(s.rate) - portionOfMS
			s.accumulator[i] += amplitude * s.kernel.at(t)
		}
		return
	}
	samplesInImpulse := index * s.ratePerMS
	offset := int(samplesInImpulse)
	phase := int(samplesInImpulse*oversampling) % oversampling
	if phase != 0 {
		// phase rounds up past the next sample boundary
		offset++
		phase = oversampling - phase
	}
	for i := 0; i < filterQuality; i++ {
		s.accumulator[offset+i] += amplitude * s.kernel.table[phase+i*oversampling]
	}
}

func clampSample(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
