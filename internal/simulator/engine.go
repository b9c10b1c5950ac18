package simulator

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
	"github.com/cwbudde/algo-ecg/internal/monitor"
)

const (
	minPixelsPerMv = 1
	maxPixelsPerMv = 1000
)

// Settings is the user-editable state of a simulator.
type Settings struct {
	Params      ecg.WaveParams     `json:"params"`
	PixelsPerMv float64            `json:"pixels_per_mv"`
	R           ecg.Pattern        `json:"r_pattern"`
	P           ecg.Pattern        `json:"p_pattern"`
	Custom      ecg.CustomSequence `json:"custom"`
}

// Engine is one simulated monitor: parameters, cycle counters and the sweep
// drawing them. All methods are safe for concurrent use; synthesis calls are
// serialized so the cycle counters are never updated by two calls at once.
//
// The sweep and the window stream each own their cycle counters, so
// streaming never takes beats out of the sequence the sweep draws.
type Engine struct {
	mu     sync.Mutex
	params ecg.WaveParams
	cfg    ecg.Config
	state  ecg.CycleState
	stream ecg.CycleState
	sweep  *monitor.Sweep
}

// NewEngine creates a simulator for the given display with default parameters.
func NewEngine(d core.Display) (*Engine, error) {
	if !(d.Width > 0) || !(d.Height > 0) || !(d.PixelsPerSecond > 0) || !(d.PixelsPerMv > 0) {
		return nil, fmt.Errorf("simulator: invalid display %+v", d)
	}
	cfg := ecg.DefaultConfig()
	cfg.Display = d
	e := &Engine{
		params: ecg.DefaultWaveParams(),
		cfg:    cfg,
	}
	e.sweep = monitor.NewSweep(d, monitor.DefaultEraseWidth, e.generateLocked)
	return e, nil
}

// Display returns the display geometry.
func (e *Engine) Display() core.Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Display
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	custom := e.cfg.Custom
	custom.Beats = append([]ecg.Shape(nil), custom.Beats...)
	return Settings{
		Params:      e.params,
		PixelsPerMv: e.cfg.Display.PixelsPerMv,
		R:           e.cfg.R,
		P:           e.cfg.P,
		Custom:      custom,
	}
}

// SetSettings validates and stores s. The new settings are used from the
// next generated window; call Apply to redraw the current one.
func (e *Engine) SetSettings(s Settings) error {
	if err := s.Params.Validate(); err != nil {
		return err
	}
	cfg := ecg.Config{R: s.R, P: s.P, Custom: s.Custom}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = s.Params
	e.cfg.R = s.R
	e.cfg.P = s.P
	e.cfg.Custom = copyCustom(s.Custom)
	if s.PixelsPerMv != 0 && s.PixelsPerMv != e.cfg.Display.PixelsPerMv {
		e.cfg.Display.PixelsPerMv = core.Clamp(s.PixelsPerMv, minPixelsPerMv, maxPixelsPerMv)
		e.sweep.Reload()
	}
	return nil
}

// SetParams validates and stores the base wave parameters.
func (e *Engine) SetParams(p ecg.WaveParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.params = p
	e.mu.Unlock()
	return nil
}

// SetPixelsPerMv changes the vertical gain and redraws the current window.
func (e *Engine) SetPixelsPerMv(v float64) error {
	if !(v > 0) || !core.Finite(v) {
		return fmt.Errorf("simulator: pixels per mV must be > 0: %v", v)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Display.PixelsPerMv = core.Clamp(v, minPixelsPerMv, maxPixelsPerMv)
	e.sweep.Reload()
	return nil
}

// SetRPattern updates the dynamic R-wave pattern.
func (e *Engine) SetRPattern(p ecg.Pattern) error {
	if err := (ecg.Config{R: p}).Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg.R = p
	e.mu.Unlock()
	return nil
}

// SetPPattern updates the dynamic P-wave pattern.
func (e *Engine) SetPPattern(p ecg.Pattern) error {
	if err := (ecg.Config{P: p}).Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg.P = p
	e.mu.Unlock()
	return nil
}

// SetCustomBeats updates the custom-beat sequence.
func (e *Engine) SetCustomBeats(seq ecg.CustomSequence) error {
	if err := (ecg.Config{Custom: seq}).Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg.Custom = copyCustom(seq)
	e.mu.Unlock()
	return nil
}

// Apply regenerates the window being drawn with the current settings.
func (e *Engine) Apply() {
	e.mu.Lock()
	e.sweep.Reload()
	e.mu.Unlock()
}

// Advance moves the sweep by dt seconds and returns the frame to paint.
func (e *Engine) Advance(dt float64) monitor.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sweep.Advance(dt)
}

// NextWindow generates the next window of the stream. Successive calls return
// contiguous windows; the sweep is not affected.
func (e *Engine) NextWindow() []ecg.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ecg.Generate(e.params, e.cfg, &e.stream)
}

// Window returns a copy of the window currently being drawn.
func (e *Engine) Window() []ecg.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ecg.Point(nil), e.sweep.Current()...)
}

// State returns a copy of the sweep's cycle counters.
func (e *Engine) State() ecg.CycleState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// StreamState returns a copy of the stream's cycle counters.
func (e *Engine) StreamState() ecg.CycleState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stream
}

// ResetState zeroes the sweep and stream counters.
func (e *Engine) ResetState() {
	e.mu.Lock()
	e.state.Reset()
	e.stream.Reset()
	e.mu.Unlock()
}

func (e *Engine) generateLocked() []ecg.Point {
	return ecg.Generate(e.params, e.cfg, &e.state)
}

func copyCustom(seq ecg.CustomSequence) ecg.CustomSequence {
	seq.Beats = append([]ecg.Shape(nil), seq.Beats...)
	return seq
}
