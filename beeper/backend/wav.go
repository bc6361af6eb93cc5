package backend

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

// WAVSink collects every pushed sample and writes a 16-bit mono WAV file
// when closed. Used for headless runs and batch rendering.
type WAVSink struct {
	path    string
	rate    int
	samples []int16
}

func NewWAVSink(path string) *WAVSink {
	return &WAVSink{path: path}
}

func (w *WAVSink) Init(rate int) error {
	w.rate = rate
	w.samples = w.samples[:0]
	return nil
}

func (w *WAVSink) PushSamples(samples []int16) error {
	w.samples = append(w.samples, samples...)
	return nil
}

// Close writes the collected audio out. Closing with no samples still
// produces a valid, empty file.
func (w *WAVSink) Close() error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	if err := writeWAV(f, w.rate, w.samples); err != nil {
		return fmt.Errorf("failed to write wav file: %w", err)
	}
	slog.Info("wrote audio", "path", w.path, "samples", len(w.samples), "rate", w.rate)
	return nil
}

// writeWAV emits a canonical 44-byte RIFF/WAVE header followed by the
// little-endian PCM data.
func writeWAV(f *os.File, rate int, samples []int16) error {
	dataLen := uint32(len(samples) * 2)
	header := struct {
		RIFF          [4]byte
		FileSize      uint32
		WAVE          [4]byte
		Fmt           [4]byte
		FmtSize       uint32
		AudioFormat   uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Data          [4]byte
		DataSize      uint32
	}{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      36 + dataLen,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1, // PCM
		Channels:      1,
		SampleRate:    uint32(rate),
		ByteRate:      uint32(rate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataLen,
	}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return err
	}
	return binary.Write(f, binary.LittleEndian, samples)
}
