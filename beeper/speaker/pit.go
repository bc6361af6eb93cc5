package speaker

import "log/slog"

// edgeSink receives output level transitions as the timer advances.
// The engine's delay queue is the production sink; tests substitute a
// recorder so the state machine can be exercised without synthesis.
type edgeSink interface {
	push(index float64, level int16)
}

// pitState models PIT channel 2, the counter wired to the speaker: five
// hardware counting modes plus the internal forced-high fallback.
//
// Phase fields are in milliseconds. lastIndex is the fraction of the
// current unit the machine has been forwarded to; the engine resets it to
// zero at every drain.
type pitState struct {
	mode uint8

	outputEnabled    bool // speaker data bit: whether edges reach the sink
	clockGateEnabled bool // timer gate: whether the counter runs

	outputLevel int16

	index   float64 // position within the current period
	max     float64 // period length
	half    float64 // first half-period length (modes 2 and 3)
	newMax  float64 // staged period, swapped in at period boundaries
	newHalf float64

	mode1WaitingForCounter bool
	mode1WaitingForTrigger bool
	mode1PendingMax        float64

	mode3Counting bool

	lastIndex float64
}

// emit pushes the current output level at the given unit fraction, unless
// the speaker data bit keeps the timer output off the line.
func (p *pitState) emit(index float64, sink edgeSink) {
	if p.outputEnabled {
		sink.push(index, p.outputLevel)
	}
}

// forward advances the timer to newIndex, emitting every transition the
// elapsed interval implies. Modes 2 and 3 may step across several
// half-periods within a single call.
func (p *pitState) forward(newIndex float64, sink edgeSink) {
	passed := newIndex - p.lastIndex
	delayBase := p.lastIndex
	p.lastIndex = newIndex

	switch p.mode {
	case modeForcedHigh:
		return
	case modeOneShot:
		if p.index >= p.max {
			// counter reached zero before this call
			return
		}
		p.index += passed
		if p.index >= p.max {
			// counter reached zero between the previous call and now
			delay := delayBase + p.max - p.index + passed
			p.outputLevel = positiveLevel
			p.emit(delay, sink)
		}
	case modeRetriggerable:
		if p.mode1WaitingForCounter || p.mode1WaitingForTrigger {
			// output is high until armed and triggered
			return
		}
		if p.index >= p.max {
			return
		}
		p.index += passed
		if p.index >= p.max {
			delay := delayBase + p.max - p.index + passed
			p.outputLevel = positiveLevel
			p.emit(delay, sink)
			// pulse finished, wait for the next gate rising edge
			p.mode1WaitingForTrigger = true
		}
	case modeRateGenerator:
		for passed > 0 {
			if p.index >= p.half {
				// in the long high stretch, next edge starts a new period
				if p.index+passed >= p.max {
					delay := p.max - p.index
					delayBase += delay
					passed -= delay
					p.outputLevel = negativeLevel
					p.emit(delayBase, sink)
					p.index = 0
				} else {
					p.index += passed
					return
				}
			} else {
				// in the single-tick low stretch
				if p.index+passed >= p.half {
					delay := p.half - p.index
					delayBase += delay
					passed -= delay
					p.outputLevel = positiveLevel
					p.emit(delayBase, sink)
					p.index = p.half
				} else {
					p.index += passed
					return
				}
			}
		}
	case modeSquareWave:
		if !p.mode3Counting {
			return
		}
		for passed > 0 {
			if p.index >= p.half {
				if p.index+passed >= p.max {
					delay := p.max - p.index
					delayBase += delay
					passed -= delay
					p.outputLevel = positiveLevel
					p.emit(delayBase, sink)
					p.index = 0
					// reprogramming takes effect at the period boundary
					p.half = p.newHalf
					p.max = p.newMax
				} else {
					p.index += passed
					return
				}
			} else {
				if p.index+passed >= p.half {
					delay := p.half - p.index
					delayBase += delay
					passed -= delay
					p.outputLevel = negativeLevel
					p.emit(delayBase, sink)
					p.index = p.half
					p.half = p.newHalf
					p.max = p.newMax
				} else {
					p.index += passed
					return
				}
			}
		}
	case modeStrobe:
		if p.index < p.max {
			if p.index+passed >= p.max {
				delay := p.max - p.index
				delayBase += delay
				p.outputLevel = negativeLevel
				// no further edges until reprogrammed
				p.emit(delayBase, sink)
				p.index = p.max
			} else {
				p.index += passed
			}
		}
	}
}

// setControlWord applies a new operating mode at the given unit fraction.
// The speaker channel only ever sees modes 1 and 3; anything else is
// logged and ignored.
func (p *pitState) setControlWord(mode uint8, index float64, sink edgeSink) {
	p.forward(index, sink)
	switch mode {
	case modeRetriggerable:
		p.mode = modeRetriggerable
		p.mode1WaitingForCounter = true
		p.mode1WaitingForTrigger = false
		p.outputLevel = positiveLevel
	case modeSquareWave:
		p.mode = modeSquareWave
		p.mode3Counting = false
		p.outputLevel = positiveLevel
	default:
		slog.Debug("pit: ignoring control word", "mode", mode)
		return
	}
	p.emit(index, sink)
}

// setCounter programs a reload value together with its mode. A mode 3
// counter below minCounter asks for a square wave the output rate cannot
// represent; the machine falls back to forcedHigh instead.
func (p *pitState) setCounter(count int, mode uint8, minCounter int, index float64, sink edgeSink) {
	if count <= 0 {
		// a reload value of 0 means 65536 on the 8254
		count = 0x10000
	}
	duration := msPerPITTick * float64(count)
	p.forward(index, sink)
	switch mode {
	case modeOneShot:
		p.outputLevel = negativeLevel
		p.index = 0
		p.max = duration
		p.emit(index, sink)
	case modeRetriggerable:
		p.mode1PendingMax = duration
		if p.mode1WaitingForCounter {
			p.mode1WaitingForCounter = false
			p.mode1WaitingForTrigger = true
		}
	case modeRateGenerator:
		p.index = 0
		p.outputLevel = negativeLevel
		p.emit(index, sink)
		p.half = msPerPITTick
		p.max = duration
	case modeSquareWave:
		if count < minCounter {
			p.outputLevel = positiveLevel
			p.mode = modeForcedHigh
			p.emit(index, sink)
			return
		}
		p.newMax = duration
		p.newHalf = p.newMax / 2
		if !p.mode3Counting {
			p.index = 0
			p.max = p.newMax
			p.half = p.newHalf
			if p.clockGateEnabled {
				p.mode3Counting = true
				p.outputLevel = positiveLevel
				p.emit(index, sink)
			}
		}
	case modeStrobe:
		p.outputLevel = positiveLevel
		p.emit(index, sink)
		p.index = 0
		p.max = duration
	default:
		slog.Debug("pit: ignoring counter for unhandled mode", "mode", mode, "count", count)
		return
	}
	p.mode = mode
}

// setGate drives the timer gate and the speaker data bit. A gate rising
// edge is a trigger; a low gate halts mode 3 counting with the output
// forced high. With the data bit clear the line is held low regardless of
// timer state.
func (p *pitState) setGate(gateEnabled, outputEnabled bool, index float64, sink edgeSink) {
	p.forward(index, sink)
	trigger := gateEnabled && !p.clockGateEnabled
	p.clockGateEnabled = gateEnabled
	p.outputEnabled = outputEnabled
	if trigger {
		switch p.mode {
		case modeRetriggerable:
			if p.mode1WaitingForCounter {
				break
			}
			p.outputLevel = negativeLevel
			p.index = 0
			p.max = p.mode1PendingMax
			p.mode1WaitingForTrigger = false
		case modeSquareWave:
			p.mode3Counting = true
			p.newHalf = p.newMax / 2
			p.index = 0
			p.max = p.newMax
			p.half = p.newHalf
			p.outputLevel = positiveLevel
		}
	} else if !gateEnabled {
		switch p.mode {
		case modeRetriggerable:
			// gate level does not affect mode 1
		case modeSquareWave:
			p.outputLevel = positiveLevel
			p.mode3Counting = false
		}
	}
	if outputEnabled {
		sink.push(index, p.outputLevel)
	} else {
		sink.push(index, negativeLevel)
	}
}
