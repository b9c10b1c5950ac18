// Command ecgmonitor shows the simulator on a desktop bedside monitor.
//
// Keys:
//
//	Up/Down   heart rate +/- 5 bpm
//	R         toggle dropped QRS every 4th beat
//	P         toggle doubled P waves every 3rd beat
//	C         toggle the custom ectopic beat sequence
//	+/-       vertical gain
//	Space     redraw the current window with the new settings
//	Esc       quit
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/config"
	"github.com/cwbudde/algo-ecg/internal/simulator"
)

func main() {
	cfg := config.Load()

	width := flag.Float64("width", cfg.Display.Width, "display width in px")
	height := flag.Float64("height", cfg.Display.Height, "display height in px")
	pps := flag.Float64("pps", cfg.Display.PixelsPerSecond, "sweep speed in px/s")
	hr := flag.Float64("hr", 70, "initial heart rate in bpm")
	flag.Parse()

	logger := config.InitLogger(os.Stderr, cfg.App.LogLevel, cfg.App.Env)

	display := core.ApplyDisplayOptions(
		core.WithWidth(*width),
		core.WithHeight(*height),
		core.WithPixelsPerSecond(*pps),
		core.WithPixelsPerMv(cfg.Display.PixelsPerMv),
	)
	eng, err := simulator.NewEngine(display)
	if err != nil {
		logger.Error("failed to create simulator", "error", err)
		os.Exit(1)
	}

	g := newGame(eng)
	if err := g.setHeartRate(*hr); err != nil {
		logger.Error("invalid heart rate", "hr", *hr, "error", err)
		os.Exit(1)
	}
	eng.Apply()

	ebiten.SetWindowSize(int(display.Width), int(display.Height))
	ebiten.SetWindowTitle("ECG Monitor")
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("monitor stopped", "error", err)
		os.Exit(1)
	}
}
