package testutil

import (
	"math"
	"math/rand"
)

// PulseTrain generates a train of raised-cosine pulses of the given amplitude,
// one every period samples, each width samples wide.
func PulseTrain(period, width int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if period <= 0 || width <= 0 {
		return out
	}
	for start := 0; start < length; start += period {
		for k := 0; k < width && start+k < length; k++ {
			out[start+k] = amplitude / 2 * (1 - math.Cos(2*math.Pi*float64(k)/float64(width)))
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Add returns the element-wise sum of a and b over the shorter length.
func Add(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
