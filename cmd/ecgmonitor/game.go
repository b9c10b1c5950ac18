package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cwbudde/algo-ecg/dsp/ecg"
	"github.com/cwbudde/algo-ecg/internal/monitor"
	"github.com/cwbudde/algo-ecg/internal/simulator"
)

const (
	hrStep   = 5
	gainStep = 10
)

var (
	backgroundColor = color.RGBA{8, 16, 12, 255}
	minorGridColor  = color.RGBA{20, 40, 30, 255}
	majorGridColor  = color.RGBA{30, 70, 50, 255}
	traceColor      = color.RGBA{0, 230, 110, 255}
	pointerColor    = color.RGBA{239, 68, 68, 255}
)

// ectopic is a wide, tall complex with an inverted T used for the custom
// sequence toggle.
var ectopic = ecg.Shape{
	HP: 0, BP: 0.08,
	HQ: -0.2, BQ: 0.04,
	HR: 1.6, BR: 0.1,
	HS: -0.5, BS: 0.06,
	HT: -0.3, BT: 0.2,
	LPQ: 0.02, LST: 0.08, LTP: 0.35,
}

type game struct {
	eng   *simulator.Engine
	frame monitor.Frame
	grid  []monitor.Line
	major []monitor.Line
}

func newGame(eng *simulator.Engine) *game {
	d := eng.Display()
	return &game{
		eng:   eng,
		grid:  monitor.GridLines(d, monitor.GridStep),
		major: monitor.GridLines(d, monitor.GridStep*5),
	}
}

func (g *game) setHeartRate(bpm float64) error {
	s := g.eng.Settings()
	s.Params.HeartRate = bpm
	return g.eng.SetParams(s.Params)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := g.handleKeys(); err != nil {
		slog.Warn("settings rejected", "error", err)
	}
	g.frame = g.eng.Advance(1 / float64(ebiten.TPS()))
	return nil
}

func (g *game) handleKeys() error {
	s := g.eng.Settings()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return g.setHeartRate(s.Params.HeartRate + hrStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return g.setHeartRate(max(s.Params.HeartRate-hrStep, hrStep))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return g.eng.SetRPattern(ecg.Pattern{Enabled: !s.R.Enabled, Count: 0, Interval: 4})
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		return g.eng.SetPPattern(ecg.Pattern{Enabled: !s.P.Enabled, Count: 2, Interval: 3})
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		return g.eng.SetCustomBeats(ecg.CustomSequence{
			Enabled:        !s.Custom.Enabled,
			RepeatInterval: 6,
			Beats:          []ecg.Shape{ectopic},
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		return g.eng.SetPixelsPerMv(s.PixelsPerMv + gainStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		return g.eng.SetPixelsPerMv(s.PixelsPerMv - gainStep)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.eng.Apply()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	for _, l := range g.grid {
		vector.StrokeLine(screen, float32(l.X1), float32(l.Y1), float32(l.X2), float32(l.Y2), 1, minorGridColor, false)
	}
	for _, l := range g.major {
		vector.StrokeLine(screen, float32(l.X1), float32(l.Y1), float32(l.X2), float32(l.Y2), 1, majorGridColor, false)
	}

	for _, seg := range g.frame.Segments {
		for i := 1; i < len(seg); i++ {
			a, b := seg[i-1], seg[i]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, traceColor, true)
		}
	}
	if g.frame.HasPointer {
		vector.DrawFilledCircle(screen, float32(g.frame.Pointer.X), float32(g.frame.Pointer.Y), 6, pointerColor, true)
	}

	s := g.eng.Settings()
	st := g.eng.State()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"HR %.0f bpm  gain %.0f px/mV  R-drop %v  P-double %v  custom %v  beats %d",
		s.Params.HeartRate, s.PixelsPerMv, s.R.Enabled, s.P.Enabled, s.Custom.Enabled, st.Beats,
	), 8, 4)
}

func (g *game) Layout(_, _ int) (int, int) {
	d := g.eng.Display()
	return int(d.Width), int(d.Height)
}
