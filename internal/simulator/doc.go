// Package simulator runs one simulated ECG monitor: its settings, the sweep
// being drawn and an independent stream of consecutive windows.
package simulator
