package monitor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

const (
	// GridStep is the spacing of the background grid in pixels.
	GridStep      = 8
	gridColor     = "#eee"
	traceColor    = "#2563eb"
	pointerColor  = "#ef4444"
	pointerRadius = 6
)

// Line is a straight grid line in display pixels.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// GridLines returns the vertical then horizontal lines of a grid with the
// given spacing covering the display.
func GridLines(d core.Display, step float64) []Line {
	if step <= 0 {
		step = GridStep
	}
	d = d.Normalized()

	var lines []Line
	for x := 0.0; x <= d.Width; x += step {
		lines = append(lines, Line{X1: x, Y1: 0, X2: x, Y2: d.Height})
	}
	for y := 0.0; y <= d.Height; y += step {
		lines = append(lines, Line{X1: 0, Y1: y, X2: d.Width, Y2: y})
	}
	return lines
}

// PathData converts point runs to SVG path data, starting a new subpath for
// every segment.
func PathData(segments [][]ecg.Point) string {
	var b strings.Builder
	for _, seg := range segments {
		for i, p := range seg {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			if i == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString("L ")
			}
			b.WriteString(formatCoord(p.X))
			b.WriteByte(' ')
			b.WriteString(formatCoord(p.Y))
		}
	}
	return b.String()
}

// WriteSVG writes a standalone SVG document with the grid, the frame's trace
// and its pointer.
func WriteSVG(w io.Writer, d core.Display, f Frame) error {
	d = d.Normalized()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatCoord(d.Width), formatCoord(d.Height), formatCoord(d.Width), formatCoord(d.Height))
	b.WriteString("\n<g class=\"grid-group\">\n")
	for _, l := range GridLines(d, GridStep) {
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			formatCoord(l.X1), formatCoord(l.Y1), formatCoord(l.X2), formatCoord(l.Y2), gridColor)
	}
	b.WriteString("</g>\n")
	fmt.Fprintf(&b, `<path class="waveform-path" d="%s" stroke="%s" fill="none" stroke-width="2"/>`+"\n",
		PathData(f.Segments), traceColor)
	if f.HasPointer {
		fmt.Fprintf(&b, `<circle class="pointer-head" cx="%s" cy="%s" r="%d" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			formatCoord(f.Pointer.X), formatCoord(f.Pointer.Y), pointerRadius, pointerColor, pointerColor)
	}
	b.WriteString("</svg>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("monitor: write svg: %w", err)
	}
	return nil
}

// Snapshot returns a frame showing a whole window with the pointer on its last point.
func Snapshot(pts []ecg.Point) Frame {
	if len(pts) == 0 {
		return Frame{}
	}
	return Frame{
		Segments:   [][]ecg.Point{pts},
		Pointer:    pts[len(pts)-1],
		HasPointer: true,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
