package speaker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeaker_PowerOnDefaults(t *testing.T) {
	s := New(Config{Rate: 48000})

	assert.Equal(t, 48000, s.Rate())
	assert.Equal(t, modeSquareWave, s.Mode())
	assert.True(t, s.OutputHigh())
	assert.Equal(t, 2*pitTickRate/48000, s.MinimumCounter())
	assert.Len(t, s.accumulator, filterQuality+48+1)
}

func TestSpeaker_RateClampedToMinimum(t *testing.T) {
	s := New(Config{Rate: 4000})
	assert.Equal(t, minRate, s.Rate())
}

func TestSpeaker_GateIdempotence(t *testing.T) {
	s := New(Config{Rate: 48000})

	s.SetGateAndOutput(true, true)
	require.Equal(t, 1, s.queue.used)

	// identical call with no time advance adds nothing
	s.SetGateAndOutput(true, true)
	assert.Equal(t, 1, s.queue.used)
}

func TestSpeaker_QueueOverflowDoesNotCrash(t *testing.T) {
	s := New(Config{Rate: 48000})

	// toggling the speaker data bit floods the queue with edges
	for i := 0; i < 3*queueCapacity; i++ {
		s.SetGateAndOutput(true, i%2 == 0)
	}
	assert.Equal(t, queueCapacity, s.queue.used)

	buf := make([]int16, 48)
	assert.Equal(t, 48, s.RequestSamples(buf))
	assert.Equal(t, 0, s.queue.used)
}

func TestSpeaker_BelowMinimumCounterForcesHigh(t *testing.T) {
	s := New(Config{Rate: 48000})
	require.Greater(t, s.MinimumCounter(), 10)

	s.SetControlWord(3)
	s.SetCounter(10, 3)
	assert.Equal(t, modeForcedHigh, s.Mode())
	assert.True(t, s.OutputHigh())

	// the session stays silent apart from the initial level step
	buf := make([]int16, 48)
	s.RequestSamples(buf)
	for unit := 0; unit < 10; unit++ {
		s.RequestSamples(buf)
		assert.Equal(t, 0, s.queue.used)
	}

	// reprogramming above the threshold recovers
	s.SetCounter(1320, 3)
	assert.Equal(t, modeSquareWave, s.Mode())
}

func TestSpeaker_SplitDrainMatchesSingleDrain(t *testing.T) {
	split := New(Config{Rate: 48000})
	whole := New(Config{Rate: 48000})

	// gate held low: one level step at the start of the unit, then no
	// further timer activity on either engine
	split.SetGateAndOutput(false, true)
	whole.SetGateAndOutput(false, true)

	one := make([]int16, 96)
	whole.RequestSamples(one)

	two := make([]int16, 96)
	split.RequestSamples(two[:48])
	split.RequestSamples(two[48:])

	assert.Equal(t, one, two,
		"draining 48+48 must match draining 96, including the DC filter state at the split")
}

func TestSpeaker_OversizeRequestPadsSilence(t *testing.T) {
	s := New(Config{Rate: 48000})
	s.SetGateAndOutput(true, true)

	buf := make([]int16, len(s.accumulator)+10)
	n := s.RequestSamples(buf)
	assert.Equal(t, len(buf), n)
	for i := 0; i < 10; i++ {
		assert.Zero(t, buf[i], "excess slot %d should be silence", i)
	}
	// the representable part still carries the edge
	nonZero := false
	for _, v := range buf[10:] {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

// goertzelPower measures the spectral power of samples at freq Hz.
func goertzelPower(samples []float64, rate int, freq float64) float64 {
	w := 2 * math.Pi * freq / float64(rate)
	coeff := 2 * math.Cos(w)
	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	return s1*s1 + s2*s2 - coeff*s1*s2
}

func TestSpeaker_PowerOnSquareWaveDominantFrequency(t *testing.T) {
	if testing.Short() {
		t.Skip("renders a full second of audio")
	}

	const rate = 48000
	s := New(Config{Rate: rate})

	// program the power-on default explicitly: mode 3, counter 1320
	s.SetControlWord(3)
	s.SetCounter(powerOnCounter, 3)
	s.SetGateAndOutput(true, true)

	samples := make([]float64, 0, rate)
	buf := make([]int16, rate/1000)
	for unit := 0; unit < 1000; unit++ {
		s.RequestSamples(buf)
		for _, v := range buf {
			samples = append(samples, float64(v))
		}
	}

	// skip the settling transient, remove residual DC
	samples = samples[rate/10:]
	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	for i := range samples {
		samples[i] -= mean
	}

	bestFreq, bestPower := 0.0, 0.0
	for freq := 300.0; freq <= 2000; freq++ {
		if p := goertzelPower(samples, rate, freq); p > bestPower {
			bestPower = p
			bestFreq = freq
		}
	}

	want := float64(pitTickRate) / float64(powerOnCounter) // ~903.9 Hz
	assert.InDelta(t, want, bestFreq, 10,
		"spectral peak should sit at the programmed square wave frequency")
}
