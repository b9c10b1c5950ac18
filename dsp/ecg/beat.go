package ecg

import "github.com/cwbudde/algo-ecg/dsp/core"

const defaultHeartRate = 60.0

// Beat is one composed cardiac cycle laid out on the window time axis.
// Breadths and lengths in Shape are already scaled to seconds.
type Beat struct {
	Index    int
	Start float64
	// Duration is the heart-rate period. Span exceeds it for QRS bursts; the
	// excess is not sampled.
	Duration float64
	Scale    float64
	Shape    Shape
	// Custom is the custom-beat index used for this beat, -1 for the base shape.
	Custom int
	PCount int
	RCount int

	P []float64
	Q []float64
	R []float64
	S []float64
	T float64
}

// End returns the time at which the next beat starts.
func (b Beat) End() float64 {
	return b.Start + b.Duration
}

// Span returns the laid-out length from the beat start to the end of the TP segment.
func (b Beat) Span() float64 {
	return b.T + b.Shape.BT + b.Shape.LTP - b.Start
}

// Voltage evaluates the beat at time t in millivolts. Components are tried
// in the order P, Q, R, S, T and the first non-zero one wins.
func (b Beat) Voltage(t float64) float64 {
	s := b.Shape
	for _, on := range b.P {
		if v := RaisedCosine(t, s.HP, s.BP, on); v != 0 {
			return v
		}
	}
	for _, on := range b.Q {
		if v := RaisedCosine(t, s.HQ, s.BQ, on); v != 0 {
			return v
		}
	}
	for _, on := range b.R {
		if v := RaisedCosine(t, s.HR, s.BR, on); v != 0 {
			return v
		}
	}
	for _, on := range b.S {
		if v := RaisedCosine(t, s.HS, s.BS, on); v != 0 {
			return v
		}
	}
	return RaisedCosine(t, s.HT, s.BT, b.T)
}

// composer walks the beat policy forward, one beat per call.
type composer struct {
	params WaveParams
	cfg    Config
	st     CycleState
}

func (c *composer) next(start float64) Beat {
	shape, custom := c.selectShape()
	pCount := c.pCount()
	rCount := c.rCount()

	period := 60 / heartRate(c.params.HeartRate)
	scale := 1.0
	if base := shape.BaseDuration(pCount, rCount); base > 0 {
		scale = period / base
	}
	s := shape.scaled(scale)

	b := Beat{
		Index:  c.st.Beats,
		Start:  start,
		Scale:  scale,
		Shape:  s,
		Custom: custom,
		PCount: pCount,
		RCount: rCount,
	}
	b.layout()
	b.Duration = period

	c.st.Beats++
	return b
}

func (c *composer) selectShape() (Shape, int) {
	seq := c.cfg.Custom
	if !seq.active() {
		return c.params.Shape, -1
	}
	if c.st.WaitingNormal > 0 {
		c.st.WaitingNormal--
		return c.params.Shape, -1
	}

	idx := c.st.CustomIndex
	if idx < 0 || idx >= len(seq.Beats) {
		idx = 0
	}
	shape := seq.Beats[idx]

	c.st.CustomIndex = idx + 1
	if c.st.CustomIndex >= len(seq.Beats) {
		c.st.CustomIndex = 0
		c.st.WaitingNormal = seq.RepeatInterval
	}
	return shape, idx
}

func (c *composer) pCount() int {
	n := c.params.PCount
	if p := c.cfg.P; p.Enabled {
		c.st.PCycle++
		if p.Interval > 0 && c.st.PCycle >= p.Interval {
			n = p.Count
			c.st.PCycle = 0
		}
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (c *composer) rCount() int {
	n := 1
	if r := c.cfg.R; r.Enabled {
		c.st.RCycle++
		if r.Interval > 0 && c.st.RCycle >= r.Interval {
			n = r.Count
			c.st.RCycle = 0
		}
	}
	if n < 0 {
		n = 0
	}
	return n
}

// layout places the wave onsets sequentially from the beat start.
func (b *Beat) layout() {
	s := b.Shape
	off := b.Start

	b.P = make([]float64, b.PCount)
	for i := range b.P {
		b.P[i] = off
		off += s.BP + s.LPQ
	}

	if b.RCount > 0 {
		b.Q = make([]float64, b.RCount)
		b.R = make([]float64, b.RCount)
		b.S = make([]float64, b.RCount)
		for i := 0; i < b.RCount; i++ {
			b.Q[i] = off
			off += s.BQ
			b.R[i] = off
			off += s.BR
			b.S[i] = off
			off += s.BS
			if i < b.RCount-1 {
				off += s.LPQ / 2
			}
		}
	}

	off += s.LST
	b.T = off
}

func heartRate(hr float64) float64 {
	if !core.Finite(hr) || hr <= 0 {
		return defaultHeartRate
	}
	return core.Clamp(hr, MinHeartRate, MaxHeartRate)
}

// Schedule composes the beats covering one window of cfg.Display, starting
// at time zero. The counters in st are read and written back once the window
// is complete so the next call continues the beat sequence. A nil st starts
// from a zero state that is discarded.
func Schedule(p WaveParams, cfg Config, st *CycleState) []Beat {
	if st == nil {
		st = &CycleState{}
	}
	d := cfg.Display.Normalized()
	total := d.WindowSeconds()

	c := composer{params: p, cfg: cfg, st: *st}

	var beats []Beat
	for elapsed := 0.0; elapsed < total; {
		b := c.next(elapsed)
		beats = append(beats, b)
		if b.End() <= elapsed {
			break
		}
		elapsed = b.End()
	}

	*st = c.st
	return beats
}
