//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Sink plays samples through an SDL2 audio device queue.
// Note: building this requires SDL2 development libraries installed.
// Default builds use a stub instead, see build tags (sdl2)
type SDL2Sink struct {
	device sdl.AudioDeviceID
	opened bool
}

// NewSDL2Sink creates a new SDL2 audio sink
func NewSDL2Sink() *SDL2Sink {
	return &SDL2Sink{}
}

// Init opens the default audio device for mono 16-bit playback
func (s *SDL2Sink) Init(rate int) error {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2 audio: %v", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(rate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  1024,
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to open audio device: %v", err)
	}
	s.device = device
	s.opened = true
	sdl.PauseAudioDevice(device, false)

	slog.Info("SDL2 audio sink initialized", "rate", rate)
	return nil
}

// PushSamples queues a block of samples on the device
func (s *SDL2Sink) PushSamples(samples []int16) error {
	if !s.opened {
		return fmt.Errorf("audio device not open")
	}
	if len(samples) == 0 {
		return nil
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	return sdl.QueueAudio(s.device, data)
}

// Close stops playback and releases the device
func (s *SDL2Sink) Close() error {
	if s.opened {
		sdl.CloseAudioDevice(s.device)
		sdl.Quit()
		s.opened = false
	}
	return nil
}
