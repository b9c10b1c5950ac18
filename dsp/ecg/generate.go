package ecg

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ecg/dsp/core"
)

// Point is a sample on the display surface in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Generate synthesizes one window of waveform as display points. Each beat
// is sampled once per horizontal pixel from its start up to its end, with
// x = t*PixelsPerSecond and y = baseline - v*PixelsPerMv so that positive
// voltages draw upward. st is updated as described for Schedule.
func Generate(p WaveParams, cfg Config, st *CycleState) []Point {
	return Render(Schedule(p, cfg, st), cfg.Display)
}

// Render samples beats produced by Schedule onto the display.
func Render(beats []Beat, display core.Display) []Point {
	d := display.Normalized()
	dt := d.SampleInterval()
	baseline := d.Baseline()

	var (
		pts   []Point
		volts []float64
		ys    []float64
	)
	for _, b := range beats {
		n := sampleCount(b, dt)
		volts = core.EnsureLen(volts, n)
		ys = core.EnsureLen(ys, n)
		for k := 0; k < n; k++ {
			volts[k] = b.Voltage(b.Start + float64(k)*dt)
		}

		vecmath.ScaleBlock(ys, volts, -d.PixelsPerMv)
		for k := 0; k < n; k++ {
			t := b.Start + float64(k)*dt
			pts = append(pts, Point{X: t * d.PixelsPerSecond, Y: baseline + ys[k]})
		}
	}
	return pts
}

// sampleCount returns the number of samples start+k*dt lying before the beat end.
func sampleCount(b Beat, dt float64) int {
	n := 0
	end := b.End()
	for b.Start+float64(n)*dt < end {
		n++
	}
	return n
}

// Voltage converts a display point back to millivolts.
func Voltage(pt Point, d core.Display) float64 {
	d = d.Normalized()
	return (d.Baseline() - pt.Y) / d.PixelsPerMv
}

// Voltages converts a window of display points back to millivolts.
func Voltages(pts []Point, d core.Display) []float64 {
	out := make([]float64, len(pts))
	for i, pt := range pts {
		out[i] = Voltage(pt, d)
	}
	return out
}
