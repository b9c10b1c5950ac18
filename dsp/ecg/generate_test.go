package ecg

import (
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func xs(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, pt := range pts {
		out[i] = pt.X
	}
	return out
}

func ys(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, pt := range pts {
		out[i] = pt.Y
	}
	return out
}

func TestGenerateCoversWindow(t *testing.T) {
	cfg := DefaultConfig()
	st := CycleState{}
	pts := Generate(DefaultWaveParams(), cfg, &st)
	if len(pts) == 0 {
		t.Fatal("no points generated")
	}

	testutil.RequireNonDecreasing(t, xs(pts))
	if pts[0].X != 0 {
		t.Fatalf("first x = %v, want 0", pts[0].X)
	}
	if last := pts[len(pts)-1].X; last < cfg.Display.Width-1 {
		t.Fatalf("last x = %v, want >= %v", last, cfg.Display.Width-1)
	}

	for i, y := range ys(pts) {
		if y < 0 || y > cfg.Display.Height {
			t.Fatalf("point %d: y = %v outside [0, %v]", i, y, cfg.Display.Height)
		}
	}
	if st.Beats == 0 {
		t.Fatal("beat counter not persisted")
	}
}

func TestGeneratePixelMapping(t *testing.T) {
	cfg := DefaultConfig()
	p := DefaultWaveParams()
	pts := Generate(p, cfg, nil)

	minY := math.Inf(1)
	for _, pt := range pts {
		minY = math.Min(minY, pt.Y)
	}
	peak := cfg.Display.Baseline() - p.HR*cfg.Display.PixelsPerMv
	// The R peak is narrow, so a pixel-spaced sample lands near but not on it.
	if minY < peak-1e-9 || minY > peak+0.1*p.HR*cfg.Display.PixelsPerMv {
		t.Fatalf("highest point y = %v, want close to %v", minY, peak)
	}

	if pts[0].Y != cfg.Display.Baseline() {
		t.Fatalf("first sample y = %v, want baseline %v", pts[0].Y, cfg.Display.Baseline())
	}
}

func TestGenerateMatchesBeatVoltages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.R = Pattern{Enabled: true, Count: 2, Interval: 3}
	p := DefaultWaveParams()

	st1, st2 := CycleState{}, CycleState{}
	beats := Schedule(p, cfg, &st1)
	pts := Generate(p, cfg, &st2)
	if st1 != st2 {
		t.Fatalf("state after Generate %+v, after Schedule %+v", st2, st1)
	}

	dt := cfg.Display.SampleInterval()
	var want []float64
	for _, b := range beats {
		for k := 0; b.Start+float64(k)*dt < b.End(); k++ {
			want = append(want, b.Voltage(b.Start+float64(k)*dt))
		}
	}
	testutil.RequireSliceNearlyEqual(t, Voltages(pts, cfg.Display), want, 1e-9)
}

func TestGenerateZeroBreadthComponent(t *testing.T) {
	p := DefaultWaveParams()
	p.BR = 0
	p.BQ = 0
	p.BS = 0
	cfg := DefaultConfig()
	cfg.R = Pattern{Enabled: true, Count: 3, Interval: 2}

	volts := Voltages(Generate(p, cfg, nil), cfg.Display)
	testutil.RequireFinite(t, volts)
	limit := math.Max(p.HP, p.HT)
	for i, v := range volts {
		if v < -1e-9 || v > limit+1e-9 {
			t.Fatalf("sample %d: %v mV, want only P/T contributions", i, v)
		}
	}
}

func TestGenerateAllZeroShape(t *testing.T) {
	cfg := DefaultConfig()
	pts := Generate(WaveParams{PCount: 2}, cfg, nil)
	if len(pts) == 0 {
		t.Fatal("no points generated")
	}
	testutil.RequireFinite(t, ys(pts))
	testutil.RequireFinite(t, xs(pts))
	for i, pt := range pts {
		if pt.Y != cfg.Display.Baseline() {
			t.Fatalf("point %d: y = %v, want flat baseline", i, pt.Y)
		}
	}
}

func TestGenerateInvalidDisplayFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display = core.Display{}
	pts := Generate(DefaultWaveParams(), cfg, nil)
	def := core.DefaultDisplay()
	if last := pts[len(pts)-1].X; last < def.Width-1 {
		t.Fatalf("last x = %v, want default width coverage", last)
	}
}

func TestGenerateConsecutiveWindowsAdvanceState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Custom = CustomSequence{Enabled: true, RepeatInterval: 1, Beats: []Shape{shapeWithAmplitude(2)}}
	st := CycleState{}

	Generate(DefaultWaveParams(), cfg, &st)
	after1 := st
	Generate(DefaultWaveParams(), cfg, &st)
	if st.Beats <= after1.Beats {
		t.Fatalf("beat counter did not advance: %d -> %d", after1.Beats, st.Beats)
	}

	st.Reset()
	if st != (CycleState{}) {
		t.Fatalf("Reset left %+v", st)
	}
}

func TestVoltageRoundTrip(t *testing.T) {
	d := core.DefaultDisplay()
	pt := Point{X: 10, Y: d.Baseline() - 0.5*d.PixelsPerMv}
	if v := Voltage(pt, d); math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("Voltage = %v, want 0.5", v)
	}
}

func TestRenderMatchesGenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.P = Pattern{Enabled: true, Count: 2, Interval: 3}
	p := DefaultWaveParams()

	var st1, st2 CycleState
	want := Generate(p, cfg, &st1)
	got := Render(Schedule(p, cfg, &st2), cfg.Display)
	if !slices.Equal(got, want) {
		t.Fatalf("Render() gave %d points, Generate() %d", len(got), len(want))
	}
}
