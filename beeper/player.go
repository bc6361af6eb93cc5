// Package beeper ties a speaker engine to an audio sink and plays tone
// programs through it, one emulated millisecond at a time.
package beeper

import (
	"fmt"
	"log/slog"

	"github.com/pcbeep/go-beeper/beeper/backend"
	"github.com/pcbeep/go-beeper/beeper/speaker"
)

// tailUnits keeps the engine draining after the last program step so
// filter ringing and the DC bleed settle instead of clicking off.
const tailUnits = 200

// Config holds construction parameters for a Player.
type Config struct {
	// Rate is the output sample rate in Hz. Defaults to 48000.
	Rate int

	// Sink receives the produced samples. Required.
	Sink backend.Sink

	// Program is the tone sequence to perform. A nil program leaves the
	// speaker in its power-on state and the player runs until stopped.
	Program *Program
}

// Player owns one speaker engine and feeds its output to a sink.
type Player struct {
	spk     *speaker.Speaker
	clock   *speaker.ManualClock
	sink    backend.Sink
	program *Program

	buf            []int16
	samplesPerUnit int
	remainder      int // rate % 1000, spread across units
	acc            int

	unit     int64
	done     bool
	tailLeft int
}

// New builds a player and initializes its sink.
func New(cfg Config) (*Player, error) {
	if cfg.Sink == nil {
		return nil, fmt.Errorf("player requires a sink")
	}
	rate := cfg.Rate
	if rate == 0 {
		rate = 48000
	}

	clock := &speaker.ManualClock{}
	spk := speaker.New(speaker.Config{Rate: rate, Clock: clock})
	rate = spk.Rate() // the engine may have clamped it

	if err := cfg.Sink.Init(rate); err != nil {
		return nil, fmt.Errorf("failed to initialize sink: %w", err)
	}

	slog.Info("player ready", "rate", rate)
	return &Player{
		spk:            spk,
		clock:          clock,
		sink:           cfg.Sink,
		program:        cfg.Program,
		buf:            make([]int16, rate/1000+1),
		samplesPerUnit: rate / 1000,
		remainder:      rate % 1000,
		tailLeft:       tailUnits,
	}, nil
}

// Speaker exposes the engine, for direct programming by hosts.
func (p *Player) Speaker() *speaker.Speaker {
	return p.spk
}

// Finished reports whether the program has completed and the tail has
// drained. A program-less player never finishes on its own.
func (p *Player) Finished() bool {
	return p.done
}

// RunUnit advances playback by one emulated millisecond: applies any
// program step due at the unit boundary, drains one unit of samples from
// the engine and pushes them to the sink.
func (p *Player) RunUnit() error {
	if p.program != nil && !p.program.Done() {
		p.program.Advance(p.spk)
	} else if p.program != nil && !p.done {
		if p.tailLeft > 0 {
			p.tailLeft--
		} else {
			p.done = true
		}
	}

	n := p.samplesPerUnit
	p.acc += p.remainder
	if p.acc >= 1000 {
		p.acc -= 1000
		n++
	}

	buf := p.buf[:n]
	p.spk.RequestSamples(buf)
	p.clock.Reset()
	p.unit++

	return p.sink.PushSamples(buf)
}

// Close closes the sink.
func (p *Player) Close() error {
	return p.sink.Close()
}
