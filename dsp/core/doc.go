// Package core holds the display geometry shared by the ECG packages and a
// few numeric helpers.
//
// A Display maps simulated seconds to horizontal pixels and millivolts to
// vertical pixels around a baseline in the middle of the surface. Build one
// with functional options:
//
//	d := core.ApplyDisplayOptions(core.WithWidth(1500), core.WithPixelsPerMv(80))
package core
