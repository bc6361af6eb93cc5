// Package terminal renders the outgoing speaker waveform as a live
// oscilloscope in the terminal.
package terminal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pcbeep/go-beeper/beeper/backend"
)

const (
	// redrawInterval throttles screen updates; samples arrive once per
	// emulated millisecond, far faster than a terminal can repaint.
	redrawInterval = 33 * time.Millisecond

	// historySeconds of samples kept for drawing.
	historySeconds = 1
)

// Scope is a Sink that wraps another sink and draws everything passing
// through it. The inner sink may be nil for a view-only scope.
type Scope struct {
	inner  backend.Sink
	screen tcell.Screen
	rate   int

	mu   sync.Mutex
	ring []int16
	pos  int
	peak int16

	lastDraw time.Time
	quit     chan struct{}
	quitOnce sync.Once
}

func NewScope(inner backend.Sink) *Scope {
	return &Scope{
		inner: inner,
		quit:  make(chan struct{}),
	}
}

// Done is closed when the user asks the scope to quit (q, Esc or Ctrl-C).
func (s *Scope) Done() <-chan struct{} {
	return s.quit
}

func (s *Scope) Init(rate int) error {
	if s.inner != nil {
		if err := s.inner.Init(rate); err != nil {
			return err
		}
	}
	s.rate = rate
	s.ring = make([]int16, rate*historySeconds)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %v", err)
	}
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorGreen))
	screen.Clear()
	s.screen = screen

	go s.eventLoop()
	return nil
}

func (s *Scope) eventLoop() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				s.requestQuit()
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				s.requestQuit()
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

func (s *Scope) requestQuit() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Scope) PushSamples(samples []int16) error {
	s.mu.Lock()
	for _, v := range samples {
		s.ring[s.pos] = v
		s.pos = (s.pos + 1) % len(s.ring)
		if v > s.peak {
			s.peak = v
		} else if -v > s.peak {
			s.peak = -v
		}
	}
	redraw := time.Since(s.lastDraw) >= redrawInterval
	if redraw {
		s.lastDraw = time.Now()
	}
	s.mu.Unlock()

	if redraw {
		s.draw()
	}
	if s.inner != nil {
		return s.inner.PushSamples(samples)
	}
	return nil
}

// draw paints the most recent window of samples, one column per cell,
// plus a one-line status bar with the peak level.
func (s *Scope) draw() {
	width, height := s.screen.Size()
	if width < 2 || height < 3 {
		return
	}
	plotHeight := height - 1

	s.mu.Lock()
	window := make([]int16, width)
	start := s.pos - width
	for x := 0; x < width; x++ {
		i := start + x
		if i < 0 {
			i += len(s.ring)
		}
		window[x] = s.ring[i%len(s.ring)]
	}
	peak := s.peak
	s.peak = 0
	s.mu.Unlock()

	s.screen.Clear()
	mid := plotHeight / 2
	trace := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	axis := tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	for x := 0; x < width; x++ {
		s.screen.SetContent(x, mid, '-', nil, axis)
		// scale int16 range onto the plot rows
		y := mid - int(int32(window[x])*int32(plotHeight)/(2*32768))
		if y < 0 {
			y = 0
		} else if y >= plotHeight {
			y = plotHeight - 1
		}
		s.screen.SetContent(x, y, '█', nil, trace)
	}

	status := fmt.Sprintf(" %d Hz  peak %5d  [q] quit", s.rate, peak)
	statusStyle := tcell.StyleDefault.
		Background(tcell.ColorDarkGreen).
		Foreground(tcell.ColorBlack)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		s.screen.SetContent(x, height-1, r, nil, statusStyle)
	}
	s.screen.Show()
}

func (s *Scope) Close() error {
	if s.screen != nil {
		s.screen.Fini()
		s.screen = nil
	}
	if s.inner != nil {
		return s.inner.Close()
	}
	return nil
}
