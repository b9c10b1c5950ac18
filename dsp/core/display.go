package core

// Display describes the monitor surface a waveform is generated for.
//
// The horizontal axis maps simulated seconds to pixels, the vertical axis
// maps millivolts to pixels around a baseline in the middle of the surface.
type Display struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	PixelsPerSecond float64 `json:"pixels_per_second"`
	PixelsPerMv     float64 `json:"pixels_per_mv"`
}

// DisplayOption mutates a Display.
type DisplayOption func(*Display)

// DefaultDisplay returns the bedside-monitor defaults: a 1000x400 px surface
// swept at 150 px/s with 100 px per millivolt.
func DefaultDisplay() Display {
	return Display{
		Width:           1000,
		Height:          400,
		PixelsPerSecond: 150,
		PixelsPerMv:     100,
	}
}

// WithWidth sets the surface width in pixels.
func WithWidth(width float64) DisplayOption {
	return func(d *Display) {
		if width > 0 {
			d.Width = width
		}
	}
}

// WithHeight sets the surface height in pixels.
func WithHeight(height float64) DisplayOption {
	return func(d *Display) {
		if height > 0 {
			d.Height = height
		}
	}
}

// WithPixelsPerSecond sets the sweep speed.
func WithPixelsPerSecond(pps float64) DisplayOption {
	return func(d *Display) {
		if pps > 0 {
			d.PixelsPerSecond = pps
		}
	}
}

// WithPixelsPerMv sets the vertical gain.
func WithPixelsPerMv(ppmv float64) DisplayOption {
	return func(d *Display) {
		if ppmv > 0 {
			d.PixelsPerMv = ppmv
		}
	}
}

// ApplyDisplayOptions applies zero or more options to the default display.
func ApplyDisplayOptions(opts ...DisplayOption) Display {
	d := DefaultDisplay()
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	return d
}

// Normalized replaces every non-positive field with its default.
func (d Display) Normalized() Display {
	def := DefaultDisplay()
	if !(d.Width > 0) {
		d.Width = def.Width
	}
	if !(d.Height > 0) {
		d.Height = def.Height
	}
	if !(d.PixelsPerSecond > 0) {
		d.PixelsPerSecond = def.PixelsPerSecond
	}
	if !(d.PixelsPerMv > 0) {
		d.PixelsPerMv = def.PixelsPerMv
	}
	return d
}

// WindowSeconds returns the simulated time covered by one page width.
func (d Display) WindowSeconds() float64 {
	return d.Width / d.PixelsPerSecond
}

// Baseline returns the vertical pixel position of 0 mV.
func (d Display) Baseline() float64 {
	return d.Height / 2
}

// SampleInterval returns the time step of one horizontal pixel.
func (d Display) SampleInterval() float64 {
	return 1 / d.PixelsPerSecond
}
