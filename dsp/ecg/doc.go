// Package ecg synthesizes electrocardiogram traces for a bedside-monitor
// display.
//
// Every beat is built from raised-cosine pulses for the P, Q, R, S and T
// waves, laid out one after the other and separated by the PQ, ST and TP
// segments. The breadths and segment lengths of a beat are rescaled so that
// each beat lasts exactly one heart-rate period.
//
// Beats can vary over time:
//
//   - a dynamic R pattern replaces the QRS count every Nth beat (0 drops the
//     complex, more than 1 produces a burst)
//   - a dynamic P pattern replaces the P-wave count every Nth beat
//   - a custom sequence plays user-defined beat shapes, followed by a number
//     of normal beats, and repeats
//
// The counters driving these variations live in a CycleState owned by the
// caller, so consecutive windows continue the beat sequence.
//
// # Usage
//
//	cfg := ecg.DefaultConfig()
//	cfg.R = ecg.Pattern{Enabled: true, Count: 0, Interval: 4}
//
//	var st ecg.CycleState
//	first := ecg.Generate(ecg.DefaultWaveParams(), cfg, &st)
//	second := ecg.Generate(ecg.DefaultWaveParams(), cfg, &st)
//
// Schedule returns the composed beats without sampling them, and Render
// samples a schedule onto the display.
package ecg
