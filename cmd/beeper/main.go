package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/pcbeep/go-beeper/beeper"
	"github.com/pcbeep/go-beeper/beeper/backend"
	"github.com/pcbeep/go-beeper/beeper/backend/terminal"
	"github.com/pcbeep/go-beeper/beeper/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "beeper"
	app.Description = "A PC speaker emulator"
	app.Usage = "beeper [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "rate",
			Usage: "Output sample rate in Hz (minimum 8000)",
			Value: 48000,
		},
		cli.IntFlag{
			Name:  "freq",
			Usage: "Play a single tone at this frequency instead of the demo jingle",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "duration",
			Usage: "Tone duration in milliseconds (with --freq)",
			Value: 1000,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Audio output: sdl2, wav or none",
			Value: "sdl2",
		},
		cli.StringFlag{
			Name:  "wav",
			Usage: "Output file path for the wav backend",
			Value: "beeper.wav",
		},
		cli.BoolFlag{
			Name:  "scope",
			Usage: "Show a terminal oscilloscope of the output",
		},
		cli.BoolFlag{
			Name:  "fast",
			Usage: "Render as fast as possible instead of pacing to real time",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runBeeper

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running beeper", "error", err)
		os.Exit(1)
	}
}

func runBeeper(c *cli.Context) error {
	if c.Bool("verbose") {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	var sink backend.Sink
	switch c.String("out") {
	case "sdl2":
		sink = backend.NewSDL2Sink()
	case "wav":
		sink = backend.NewWAVSink(c.String("wav"))
	case "none":
		sink = backend.NewNullSink()
	default:
		return fmt.Errorf("unknown output %q (want sdl2, wav or none)", c.String("out"))
	}

	var scope *terminal.Scope
	if c.Bool("scope") {
		scope = terminal.NewScope(sink)
		sink = scope
	}

	program := beeper.DemoJingle()
	if freq := c.Int("freq"); freq > 0 {
		program = beeper.Tone(freq, c.Int("duration"))
	}

	player, err := beeper.New(beeper.Config{
		Rate:    c.Int("rate"),
		Sink:    sink,
		Program: program,
	})
	if err != nil {
		return err
	}
	defer player.Close()

	var pacer timing.Pacer = timing.NewAdaptivePacer()
	if c.Bool("fast") {
		pacer = timing.NewNoOpPacer()
	}

	for !player.Finished() {
		if scope != nil {
			select {
			case <-scope.Done():
				return nil
			default:
			}
		}
		pacer.WaitForNextUnit()
		if err := player.RunUnit(); err != nil {
			return err
		}
	}
	return nil
}
