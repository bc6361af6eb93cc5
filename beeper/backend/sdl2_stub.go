//go:build !sdl2

package backend

import "fmt"

// SDL2Sink stub for when SDL2 is not available
type SDL2Sink struct{}

func NewSDL2Sink() *SDL2Sink {
	return &SDL2Sink{}
}

func (s *SDL2Sink) Init(rate int) error {
	return fmt.Errorf("SDL2 sink not available - compile with -tags sdl2 and install SDL2 development libraries")
}

func (s *SDL2Sink) PushSamples(samples []int16) error {
	return fmt.Errorf("SDL2 sink not available")
}

func (s *SDL2Sink) Close() error {
	return nil
}
