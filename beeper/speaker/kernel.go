package speaker

import "math"

// impulseKernel is a raised-cosine-windowed sinc lowpass filter tabulated
// at oversampling sub-sample phases. It is built once per engine; the
// synthesis hot path is pure table lookup and multiply-accumulate.
type impulseKernel struct {
	rate  float64
	table []float64
}

func newImpulseKernel(rate int) *impulseKernel {
	k := &impulseKernel{
		rate:  float64(rate),
		table: make([]float64, filterWidth),
	}
	for i := range k.table {
		k.table[i] = k.at(float64(i) / (k.rate * oversampling))
	}
	return k
}

// at evaluates the windowed sinc directly at t seconds. The support is
// [0, filterQuality/rate); outside it the kernel is zero. Used to build
// the table and by the reference synthesis path.
func (k *impulseKernel) at(t float64) float64 {
	fs := k.rate
	fc := fs / (2 + cutoffMargin)
	const q = float64(filterQuality)
	if t <= 0 || t*fs >= q {
		return 0
	}
	window := 1 + math.Cos(2*fs*math.Pi*(q/(2*fs)-t)/q)
	return window * sinc(2*fc*math.Pi*(t-q/(2*fs))) / 2
}

// sinc approximates sin(t)/t through the cosine product expansion, which
// has no removable singularity at t = 0.
func sinc(t float64) float64 {
	const accuracy = 20
	result := 1.0
	for i := 1; i < accuracy; i++ {
		t /= 2
		result *= math.Cos(t)
	}
	return result
}
