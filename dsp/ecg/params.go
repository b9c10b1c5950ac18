package ecg

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/core"
)

// ErrInvalidParams reports a parameter set that cannot describe a waveform.
var ErrInvalidParams = errors.New("ecg: invalid parameters")

// Heart-rate range accepted by Validate. Synthesis clamps into the same range
// so a window always holds a bounded number of beats and samples.
const (
	MinHeartRate = 1.0
	MaxHeartRate = 1000.0
)

// Shape describes one beat: amplitude (mV) and breadth of each wave
// component plus the isoelectric segment lengths. Breadths and lengths are
// relative units; every beat is rescaled to the heart-rate period.
type Shape struct {
	HP  float64 `json:"h_p"`
	BP  float64 `json:"b_p"`
	HQ  float64 `json:"h_q"`
	BQ  float64 `json:"b_q"`
	HR  float64 `json:"h_r"`
	BR  float64 `json:"b_r"`
	HS  float64 `json:"h_s"`
	BS  float64 `json:"b_s"`
	HT  float64 `json:"h_t"`
	BT  float64 `json:"b_t"`
	LPQ float64 `json:"l_pq"`
	LST float64 `json:"l_st"`
	LTP float64 `json:"l_tp"`
}

// WaveParams is the base beat shape together with the heart rate and the
// default number of P waves preceding each QRS complex.
type WaveParams struct {
	HeartRate float64 `json:"heart_rate"`
	Shape
	PCount int `json:"n_p"`
}

// Pattern periodically overrides a wave count: every Interval-th beat
// carries Count waves instead of the default.
type Pattern struct {
	Enabled  bool `json:"enabled"`
	Count    int  `json:"count"`
	Interval int  `json:"interval"`
}

// CustomSequence plays Beats in order in place of the base shape, then
// RepeatInterval normal beats, then starts over.
type CustomSequence struct {
	Enabled        bool    `json:"enabled"`
	RepeatInterval int     `json:"repeat_interval"`
	Beats          []Shape `json:"beats"`
}

func (c CustomSequence) active() bool {
	return c.Enabled && len(c.Beats) > 0
}

// Config holds everything besides the base shape that drives synthesis.
type Config struct {
	Display core.Display   `json:"display"`
	R       Pattern        `json:"r_pattern"`
	P       Pattern        `json:"p_pattern"`
	Custom  CustomSequence `json:"custom"`
}

// DefaultWaveParams returns a normal sinus beat at 70 bpm.
func DefaultWaveParams() WaveParams {
	return WaveParams{
		HeartRate: 70,
		Shape: Shape{
			HP: 0.15, BP: 0.08,
			HQ: -0.1, BQ: 0.025,
			HR: 1.2, BR: 0.05,
			HS: -0.25, BS: 0.025,
			HT: 0.2, BT: 0.16,
			LPQ: 0.08, LST: 0.12, LTP: 0.3,
		},
		PCount: 1,
	}
}

// DefaultConfig returns the default display with all patterns disabled.
func DefaultConfig() Config {
	return Config{
		Display: core.DefaultDisplay(),
		R:       Pattern{Count: 2, Interval: 5},
		P:       Pattern{Count: 0, Interval: 3},
		Custom:  CustomSequence{RepeatInterval: 10},
	}
}

// Validate rejects non-finite values and negative breadths, lengths or counts.
// Synthesis itself never validates; this is for user-supplied input.
func (p WaveParams) Validate() error {
	if !core.Finite(p.HeartRate) || p.HeartRate < MinHeartRate || p.HeartRate > MaxHeartRate {
		return fmt.Errorf("%w: heart rate %v outside [%v, %v] bpm", ErrInvalidParams, p.HeartRate, MinHeartRate, MaxHeartRate)
	}
	if p.PCount < 0 {
		return fmt.Errorf("%w: P count %d", ErrInvalidParams, p.PCount)
	}
	return p.Shape.Validate()
}

// Validate rejects non-finite values and negative breadths or lengths.
func (s Shape) Validate() error {
	amplitudes := []struct {
		name string
		v    float64
	}{{"h_p", s.HP}, {"h_q", s.HQ}, {"h_r", s.HR}, {"h_s", s.HS}, {"h_t", s.HT}}
	for _, a := range amplitudes {
		if !core.Finite(a.v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParams, a.name, a.v)
		}
	}

	spans := []struct {
		name string
		v    float64
	}{
		{"b_p", s.BP}, {"b_q", s.BQ}, {"b_r", s.BR}, {"b_s", s.BS}, {"b_t", s.BT},
		{"l_pq", s.LPQ}, {"l_st", s.LST}, {"l_tp", s.LTP},
	}
	for _, sp := range spans {
		if !core.Finite(sp.v) || sp.v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParams, sp.name, sp.v)
		}
	}
	return nil
}

// Validate checks the pattern settings and every custom beat.
func (c Config) Validate() error {
	if c.R.Count < 0 || c.R.Interval < 0 {
		return fmt.Errorf("%w: R pattern %+v", ErrInvalidParams, c.R)
	}
	if c.P.Count < 0 || c.P.Interval < 0 {
		return fmt.Errorf("%w: P pattern %+v", ErrInvalidParams, c.P)
	}
	if c.Custom.RepeatInterval < 0 {
		return fmt.Errorf("%w: repeat interval %d", ErrInvalidParams, c.Custom.RepeatInterval)
	}
	for i, b := range c.Custom.Beats {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("custom beat %d: %w", i, err)
		}
	}
	return nil
}

// BaseDuration returns the unscaled length of a beat with the given wave
// counts. The QRS breadths are counted once whenever at least one complex is
// present, so additional complexes of a burst extend past the period and the
// tail of the beat is cut at the next beat's start.
func (s Shape) BaseDuration(pCount, rCount int) float64 {
	if pCount < 0 {
		pCount = 0
	}
	base := float64(pCount)*(s.BP+s.LPQ) + s.LST + s.BT + s.LTP
	if rCount > 0 {
		base += s.BQ + s.BR + s.BS
	}
	return base
}

func (s Shape) scaled(f float64) Shape {
	s.BP *= f
	s.BQ *= f
	s.BR *= f
	s.BS *= f
	s.BT *= f
	s.LPQ *= f
	s.LST *= f
	s.LTP *= f
	return s
}
