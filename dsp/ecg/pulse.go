package ecg

import "math"

// RaisedCosine returns a raised-cosine bump of the given amplitude and breadth
// starting at onset. It is zero outside [onset, onset+breadth] and for a zero
// breadth, and reaches amplitude at the midpoint.
func RaisedCosine(t, amplitude, breadth, onset float64) float64 {
	if breadth == 0 || t < onset || t > onset+breadth {
		return 0
	}
	return amplitude / 2 * (1 - math.Cos(2*math.Pi*(t-onset)/breadth))
}
