// Package backend provides the audio sinks the speaker engine feeds.
package backend

// Sink consumes finished PCM blocks from the speaker engine.
// Sinks are responsible for:
// - Accepting mono 16-bit samples at the rate given to Init
// - Delivering or storing them without blocking the production loop
// - Releasing platform resources on Close
type Sink interface {
	// Init prepares the sink for playback at the given sample rate.
	// This is a required step before calling PushSamples.
	Init(rate int) error

	// PushSamples hands the sink one finished block of samples. The
	// slice is reused by the caller and must not be retained.
	PushSamples(samples []int16) error

	// Close flushes and releases the sink.
	Close() error
}
