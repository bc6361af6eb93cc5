package backend

import "log/slog"

// NullSink discards samples while counting them. Useful when only a
// wrapping view (the oscilloscope) or a benchmark needs the production
// loop to run.
type NullSink struct {
	rate  int
	count int64
}

func NewNullSink() *NullSink {
	return &NullSink{}
}

func (n *NullSink) Init(rate int) error {
	n.rate = rate
	n.count = 0
	return nil
}

func (n *NullSink) PushSamples(samples []int16) error {
	n.count += int64(len(samples))
	return nil
}

// SampleCount returns the number of samples discarded so far.
func (n *NullSink) SampleCount() int64 {
	return n.count
}

func (n *NullSink) Close() error {
	slog.Debug("null sink closed", "samples", n.count)
	return nil
}
