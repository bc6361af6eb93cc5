package speaker

// Timer constants
// Reference: https://wiki.osdev.org/Programmable_Interval_Timer
const (
	// pitTickRate is the input clock of the 8254 timer chip in Hz.
	pitTickRate = 1193182

	// msPerPITTick is the duration of one timer tick in milliseconds.
	msPerPITTick = 1000.0 / pitTickRate

	// powerOnCounter is the reload value the BIOS leaves in channel 2,
	// a square wave of roughly 903 Hz.
	powerOnCounter = 1320
)

// Synthesis constants
const (
	// positiveLevel and negativeLevel are the two logical speaker output
	// levels. Kept well inside the int16 range so filter ringing cannot
	// wrap a sample.
	positiveLevel int16 = 20000
	negativeLevel int16 = -positiveLevel

	// queueCapacity bounds the number of output transitions recorded per
	// millisecond unit. Edges past the limit are dropped.
	queueCapacity = 1024

	// filterQuality is the impulse kernel length in whole output samples.
	// oversampling is the number of sub-sample phases tabulated per sample.
	filterQuality = 100
	oversampling  = 32
	filterWidth   = filterQuality * oversampling

	// cutoffMargin pushes the lowpass cutoff below Nyquist to leave
	// headroom against aliasing. Must be greater than zero.
	cutoffMargin = 0.2

	// highpassCoefficient bleeds accumulated DC off the integrated output
	// once per sample.
	highpassCoefficient = 0.999

	// minRate is the lowest supported output sample rate in Hz.
	minRate = 8000
)

// PIT operating modes for the speaker channel. Mode 5 (hardware strobe)
// needs a gate pin the speaker port cannot drive, so it is not modeled.
const (
	modeOneShot       uint8 = 0 // interrupt on terminal count
	modeRetriggerable uint8 = 1 // retriggerable one-shot
	modeRateGenerator uint8 = 2
	modeSquareWave    uint8 = 3
	modeStrobe        uint8 = 4 // software triggered strobe

	// modeForcedHigh is not a hardware mode: it holds the output at
	// positiveLevel when a programmed square wave is too fast for the
	// output sample rate to represent.
	modeForcedHigh uint8 = 6
)
