// Package monitor renders generated ECG windows the way a bedside monitor
// does: the first window is revealed progressively behind a moving pointer,
// after that every sweep writes the next window over the previous one with a
// short erased gap ahead of the pointer.
package monitor

import (
	"sort"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

// DefaultEraseWidth is the width in pixels of the gap ahead of the pointer.
const DefaultEraseWidth = 12

// Source produces the next window of display points.
type Source func() []ecg.Point

// Frame is what a renderer paints for one animation tick.
type Frame struct {
	// Segments are contiguous runs of points; a renderer draws each one as a
	// separate polyline.
	Segments [][]ecg.Point
	Pointer  ecg.Point
	// HasPointer is false while the current window is empty.
	HasPointer bool
	// Sweep counts completed passes over the display.
	Sweep int
}

// Sweep tracks the pointer position and the windows being displayed.
// It is not safe for concurrent use.
type Sweep struct {
	display    core.Display
	eraseWidth float64
	source     Source

	current  []ecg.Point
	previous []ecg.Point
	pointerX float64
	first    bool
	sweeps   int
}

// NewSweep creates a sweep over display and loads the first window from source.
func NewSweep(display core.Display, eraseWidth float64, source Source) *Sweep {
	if eraseWidth < 0 {
		eraseWidth = 0
	}
	s := &Sweep{
		display:    display.Normalized(),
		eraseWidth: eraseWidth,
		source:     source,
		first:      true,
	}
	s.current = s.next()
	return s
}

// Reload replaces the window being drawn with a fresh one from the source.
// The pointer keeps its position.
func (s *Sweep) Reload() {
	s.current = s.next()
}

// SetDisplay changes the display geometry used for wrapping.
func (s *Sweep) SetDisplay(d core.Display) {
	s.display = d.Normalized()
}

// PointerX returns the pointer position in pixels.
func (s *Sweep) PointerX() float64 {
	return s.pointerX
}

// Current returns the window currently being drawn.
func (s *Sweep) Current() []ecg.Point {
	return s.current
}

// Advance moves the pointer by dt seconds and returns the frame to paint.
func (s *Sweep) Advance(dt float64) Frame {
	if dt > 0 {
		s.pointerX += s.display.PixelsPerSecond * dt
	}

	if s.first {
		if s.pointerX > s.display.Width {
			s.first = false
		}
	} else {
		for s.pointerX > s.display.Width {
			s.pointerX -= s.display.Width
			s.previous = s.current
			s.current = s.next()
			s.sweeps++
		}
	}

	return s.frame()
}

func (s *Sweep) frame() Frame {
	f := Frame{Sweep: s.sweeps}
	if len(s.current) == 0 {
		return f
	}

	idx := firstAtOrAfter(s.current, s.pointerX)
	if idx >= len(s.current) {
		idx = len(s.current) - 1
	}
	f.Pointer = s.current[idx]
	f.HasPointer = true

	if s.first {
		f.Segments = [][]ecg.Point{s.current[:idx+1]}
		return f
	}

	f.Segments = append(f.Segments, s.current[:idx+1])
	if len(s.previous) > 0 {
		cut := firstAfter(s.previous, s.pointerX+s.eraseWidth)
		if tail := s.previous[cut:]; len(tail) > 0 {
			f.Segments = append(f.Segments, tail)
		}
	}
	return f
}

func (s *Sweep) next() []ecg.Point {
	if s.source == nil {
		return nil
	}
	return s.source()
}

// firstAtOrAfter returns the index of the first point with X >= x.
func firstAtOrAfter(pts []ecg.Point, x float64) int {
	return sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
}

// firstAfter returns the index of the first point with X > x.
func firstAfter(pts []ecg.Point, x float64) int {
	return sort.Search(len(pts), func(i int) bool { return pts[i].X > x })
}
