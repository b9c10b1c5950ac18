// Package heartrate measures the beat rate of a synthesized ECG trace.
//
// Two estimators are provided: R-peak detection with a refractory period,
// and an FFT autocorrelation estimator that does not depend on the QRS
// amplitude and tolerates dropped or repeated complexes.
package heartrate

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultThreshold  = 0.6
	defaultRefractory = 0.2
	defaultMinBPM     = 20.0
	defaultMaxBPM     = 250.0
)

var (
	// ErrTooShort is returned when the trace cannot contain a full period.
	ErrTooShort = errors.New("heartrate: trace too short")
	// ErrNoPeaks is returned when no periodicity or too few R peaks are found.
	ErrNoPeaks = errors.New("heartrate: no beats found")
)

// Config holds detection parameters. Zero values select the defaults.
type Config struct {
	// Threshold is the rising-edge level in mV for R-peak detection.
	Threshold float64
	// Refractory is the minimum time in seconds between two detected peaks.
	Refractory float64
	MinBPM     float64
	MaxBPM     float64
}

// Result holds an autocorrelation estimate.
type Result struct {
	BPM    float64
	Period float64
	// Lag is the refined autocorrelation peak position in samples.
	Lag float64
	// Confidence is the autocorrelation at Lag normalized by the zero-lag energy.
	Confidence float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.Threshold == 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.Refractory <= 0 {
		cfg.Refractory = defaultRefractory
	}
	if cfg.MinBPM <= 0 {
		cfg.MinBPM = defaultMinBPM
	}
	if cfg.MaxBPM <= 0 {
		cfg.MaxBPM = defaultMaxBPM
	}
	if cfg.MinBPM > cfg.MaxBPM {
		cfg.MinBPM, cfg.MaxBPM = cfg.MaxBPM, cfg.MinBPM
	}
	return cfg
}

// DetectPeaks returns the sample indices where trace rises through the
// threshold, ignoring crossings inside the refractory period of the previous
// detection.
func DetectPeaks(trace []float64, sampleRate float64, cfg Config) []int {
	cfg = normalizeConfig(cfg)
	refractory := int(math.Round(cfg.Refractory * sampleRate))

	var peaks []int
	last := -refractory - 1
	for i := 1; i < len(trace); i++ {
		if trace[i-1] < cfg.Threshold && trace[i] >= cfg.Threshold {
			if i-last > refractory {
				peaks = append(peaks, i)
				last = i
			}
		}
	}
	return peaks
}

// FromPeaks converts detected peak positions to beats per minute using the
// mean peak-to-peak interval.
func FromPeaks(peaks []int, sampleRate float64) (float64, error) {
	if len(peaks) < 2 {
		return 0, fmt.Errorf("%w: %d peaks", ErrNoPeaks, len(peaks))
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("heartrate: sample rate must be > 0: %f", sampleRate)
	}
	mean := float64(peaks[len(peaks)-1]-peaks[0]) / float64(len(peaks)-1)
	if mean <= 0 {
		return 0, fmt.Errorf("%w: peaks not increasing", ErrNoPeaks)
	}
	return 60 * sampleRate / mean, nil
}

// Estimate finds the dominant beat period of trace from its autocorrelation,
// searching lags between MaxBPM and MinBPM.
func Estimate(trace []float64, sampleRate float64, cfg Config) (Result, error) {
	if sampleRate <= 0 {
		return Result{}, fmt.Errorf("heartrate: sample rate must be > 0: %f", sampleRate)
	}
	cfg = normalizeConfig(cfg)

	n := len(trace)
	minLag := int(math.Floor(sampleRate * 60 / cfg.MaxBPM))
	maxLag := int(math.Ceil(sampleRate * 60 / cfg.MinBPM))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > n/2 {
		maxLag = n / 2
	}
	if maxLag-minLag < 2 {
		return Result{}, fmt.Errorf("%w: %d samples", ErrTooShort, n)
	}

	acf, err := autocorrelation(trace)
	if err != nil {
		return Result{}, err
	}
	if !(acf[0] > 0) {
		return Result{}, fmt.Errorf("%w: flat trace", ErrNoPeaks)
	}

	best := -1
	for k := minLag + 1; k < maxLag; k++ {
		if acf[k] < acf[k-1] || acf[k] < acf[k+1] {
			continue
		}
		if best < 0 || acf[k] > acf[best] {
			best = k
		}
	}
	if best < 0 || acf[best] <= 0 {
		return Result{}, fmt.Errorf("%w: no autocorrelation peak", ErrNoPeaks)
	}

	lag := float64(best) + parabolicOffset(acf[best-1], acf[best], acf[best+1])
	period := lag / sampleRate
	return Result{
		BPM:        60 / period,
		Period:     period,
		Lag:        lag,
		Confidence: acf[best] / acf[0],
	}, nil
}

// autocorrelation returns the biased, mean-removed autocorrelation of x
// computed through a zero-padded FFT.
func autocorrelation(x []float64) ([]float64, error) {
	n := len(x)
	fftSize := nextPowerOf2(2 * n)

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v-mean, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("heartrate: fft plan: %w", err)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("heartrate: forward fft: %w", err)
	}

	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}
	pow := make([]float64, fftSize)
	vecmath.Power(pow, re, im)

	for i, p := range pow {
		spec[i] = complex(p, 0)
	}
	lags := make([]complex128, fftSize)
	if err := plan.Inverse(lags, spec); err != nil {
		return nil, fmt.Errorf("heartrate: inverse fft: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(lags[i])
	}
	return out, nil
}

func parabolicOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	off := 0.5 * (a - c) / den
	if off < -0.5 || off > 0.5 {
		return 0
	}
	return off
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
