package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

// pointSize is the encoded size of one point: two little-endian float32 values.
const pointSize = 8

// ErrMalformedWindow is returned when a payload is not a whole number of points.
var ErrMalformedWindow = errors.New("stream: malformed window payload")

// EncodeWindow packs points as little-endian float32 x,y pairs.
func EncodeWindow(pts []ecg.Point) []byte {
	out := make([]byte, pointSize*len(pts))
	for i, p := range pts {
		binary.LittleEndian.PutUint32(out[i*pointSize:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(out[i*pointSize+4:], math.Float32bits(float32(p.Y)))
	}
	return out
}

// DecodeWindow unpacks a payload produced by EncodeWindow.
func DecodeWindow(b []byte) ([]ecg.Point, error) {
	if len(b)%pointSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedWindow, len(b))
	}
	pts := make([]ecg.Point, len(b)/pointSize)
	for i := range pts {
		x := math.Float32frombits(binary.LittleEndian.Uint32(b[i*pointSize:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(b[i*pointSize+4:]))
		pts[i] = ecg.Point{X: float64(x), Y: float64(y)}
	}
	return pts, nil
}
