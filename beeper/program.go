package beeper

import "github.com/pcbeep/go-beeper/beeper/speaker"

// Step is one entry of a tone program: a frequency held for a duration.
// Freq 0 is a rest.
type Step struct {
	Freq int // Hz
	Ms   int
}

// Program issues the same PIT command traffic a real-mode program would:
// control word for mode 3, counter from the frequency, gate on for notes
// and off for rests.
type Program struct {
	steps   []Step
	pos     int
	leftMs  int
	playing bool
	done    bool
}

func NewProgram(steps []Step) *Program {
	return &Program{steps: steps}
}

// Tone returns a single-note program.
func Tone(freq, ms int) *Program {
	return NewProgram([]Step{{Freq: freq, Ms: ms}})
}

// Done reports whether every step has been performed and the gate closed.
func (p *Program) Done() bool {
	return p.done
}

// Advance is called once per unit, at the unit boundary, and applies the
// next step's commands when the current one has elapsed.
func (p *Program) Advance(spk *speaker.Speaker) {
	if p.done {
		return
	}
	if p.leftMs == 0 {
		if p.pos >= len(p.steps) {
			if p.playing {
				spk.SetGateAndOutput(false, false)
			}
			p.done = true
			return
		}
		step := p.steps[p.pos]
		p.pos++
		if step.Freq <= 0 {
			spk.SetGateAndOutput(false, false)
			p.playing = false
		} else {
			spk.SetControlWord(3)
			spk.SetCounter(speaker.CounterForFrequency(step.Freq), 3)
			spk.SetGateAndOutput(true, true)
			p.playing = true
		}
		p.leftMs = step.Ms
	}
	p.leftMs--
}

// DemoJingle returns a short built-in melody, handy for checking that a
// sink actually produces sound.
func DemoJingle() *Program {
	return NewProgram([]Step{
		{Freq: 523, Ms: 180},  // C5
		{Freq: 659, Ms: 180},  // E5
		{Freq: 784, Ms: 180},  // G5
		{Freq: 1047, Ms: 280}, // C6
		{Freq: 0, Ms: 120},
		{Freq: 784, Ms: 160},
		{Freq: 1047, Ms: 420},
	})
}
