package monitor

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

// rampSource returns windows of one point per pixel whose y encodes the
// window number, so tests can tell old and new traces apart.
func rampSource(width int) (Source, *int) {
	calls := 0
	return func() []ecg.Point {
		calls++
		pts := make([]ecg.Point, width+1)
		for i := range pts {
			pts[i] = ecg.Point{X: float64(i), Y: float64(calls)}
		}
		return pts
	}, &calls
}

func testDisplay() core.Display {
	return core.ApplyDisplayOptions(core.WithWidth(100), core.WithHeight(50), core.WithPixelsPerSecond(100))
}

func TestSweepFirstPassRevealsProgressively(t *testing.T) {
	src, calls := rampSource(100)
	s := NewSweep(testDisplay(), 10, src)
	if *calls != 1 {
		t.Fatalf("source calls = %d, want 1", *calls)
	}

	f := s.Advance(0.25)
	if len(f.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(f.Segments))
	}
	if got := len(f.Segments[0]); got != 26 {
		t.Fatalf("revealed points = %d, want 26", got)
	}
	if !f.HasPointer || f.Pointer.X != 25 {
		t.Fatalf("pointer = %+v, want x=25", f.Pointer)
	}

	f = s.Advance(0.5)
	if got := len(f.Segments[0]); got != 76 {
		t.Fatalf("revealed points = %d, want 76", got)
	}
}

func TestSweepWrapsAndErases(t *testing.T) {
	src, calls := rampSource(100)
	s := NewSweep(testDisplay(), 10, src)

	s.Advance(1.01) // past the right edge: first sweep ends
	if *calls != 1 {
		t.Fatalf("source calls = %d after first pass, want 1", *calls)
	}

	f := s.Advance(0.2) // wraps to x ~ 21
	if *calls != 2 {
		t.Fatalf("source calls = %d after wrap, want 2", *calls)
	}
	if f.Sweep != 1 {
		t.Fatalf("sweep = %d, want 1", f.Sweep)
	}
	if len(f.Segments) != 2 {
		t.Fatalf("segments = %d, want new trace and old trace", len(f.Segments))
	}

	head, tail := f.Segments[0], f.Segments[1]
	for _, p := range head {
		if p.Y != 2 || p.X > s.PointerX()+1 {
			t.Fatalf("head point %+v, want new window behind pointer %v", p, s.PointerX())
		}
	}
	if tail[0].X <= s.PointerX()+10 {
		t.Fatalf("old trace resumes at %v, want past erase gap ending %v", tail[0].X, s.PointerX()+10)
	}
	for _, p := range tail {
		if p.Y != 1 {
			t.Fatalf("tail point %+v, want previous window", p)
		}
	}
}

func TestSweepReload(t *testing.T) {
	src, calls := rampSource(100)
	s := NewSweep(testDisplay(), 10, src)
	s.Advance(0.25)
	s.Reload()
	if *calls != 2 {
		t.Fatalf("source calls = %d, want 2", *calls)
	}
	if s.PointerX() != 25 {
		t.Fatalf("pointer = %v, want unchanged 25", s.PointerX())
	}
	if s.Current()[0].Y != 2 {
		t.Fatal("current window not replaced")
	}
}

func TestSweepEmptySource(t *testing.T) {
	s := NewSweep(testDisplay(), DefaultEraseWidth, nil)
	f := s.Advance(0.5)
	if f.HasPointer || len(f.Segments) != 0 {
		t.Fatalf("frame = %+v, want empty", f)
	}
}

func TestSweepWithGeneratedWindows(t *testing.T) {
	cfg := ecg.DefaultConfig()
	var st ecg.CycleState
	s := NewSweep(cfg.Display, DefaultEraseWidth, func() []ecg.Point {
		return ecg.Generate(ecg.DefaultWaveParams(), cfg, &st)
	})

	for i := 0; i < 1000; i++ {
		f := s.Advance(1.0 / 60)
		if !f.HasPointer {
			t.Fatalf("tick %d: no pointer", i)
		}
		if f.Pointer.X < s.PointerX()-2 || f.Pointer.X > s.PointerX()+2 {
			t.Fatalf("tick %d: pointer point x=%v, sweep at %v", i, f.Pointer.X, s.PointerX())
		}
	}
	if st.Beats == 0 {
		t.Fatal("windows were not generated")
	}
}

func TestPathData(t *testing.T) {
	got := PathData([][]ecg.Point{
		{{X: 0, Y: 1}, {X: 1, Y: 2.5}},
		{{X: 5, Y: 3}},
	})
	want := "M 0 1 L 1 2.5 M 5 3"
	if got != want {
		t.Fatalf("PathData() = %q, want %q", got, want)
	}
	if PathData(nil) != "" {
		t.Fatal("expected empty path for no segments")
	}
}

func TestGridLines(t *testing.T) {
	d := core.ApplyDisplayOptions(core.WithWidth(16), core.WithHeight(8))
	lines := GridLines(d, 8)
	// x = 0, 8, 16 and y = 0, 8
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	if lines[2] != (Line{X1: 16, Y1: 0, X2: 16, Y2: 8}) {
		t.Fatalf("last vertical line = %+v", lines[2])
	}
}

func TestWriteSVG(t *testing.T) {
	d := core.ApplyDisplayOptions(core.WithWidth(16), core.WithHeight(8))
	var b strings.Builder
	if err := WriteSVG(&b, d, Snapshot([]ecg.Point{{X: 0, Y: 4}, {X: 2, Y: 3}})); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`width="16" height="8"`,
		`d="M 0 4 L 2 3"`,
		`<circle class="pointer-head" cx="2" cy="3"`,
		`<line x1="0" y1="8" x2="16" y2="8" stroke="#eee"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestWriteSVGError(t *testing.T) {
	if err := WriteSVG(failingWriter{}, testDisplay(), Frame{}); err == nil {
		t.Fatal("expected write error")
	}
}
