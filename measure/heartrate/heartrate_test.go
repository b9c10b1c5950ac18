package heartrate

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func TestDetectPeaksPulseTrain(t *testing.T) {
	trace := testutil.PulseTrain(100, 10, 1, 1000)
	peaks := DetectPeaks(trace, 100, Config{Threshold: 0.5})
	if len(peaks) != 10 {
		t.Fatalf("peaks = %v, want 10", peaks)
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i]-peaks[i-1] != 100 {
			t.Fatalf("peak spacing %d at %d, want 100", peaks[i]-peaks[i-1], i)
		}
	}

	bpm, err := FromPeaks(peaks, 100)
	if err != nil {
		t.Fatalf("FromPeaks() error = %v", err)
	}
	if math.Abs(bpm-60) > 1e-9 {
		t.Fatalf("bpm = %v, want 60", bpm)
	}
}

func TestDetectPeaksRefractory(t *testing.T) {
	// Two pulses 5 samples apart fall within a 0.2 s refractory window at 100 Hz.
	trace := testutil.Add(testutil.PulseTrain(50, 4, 1, 200), append(make([]float64, 5), testutil.PulseTrain(50, 4, 1, 195)...))
	peaks := DetectPeaks(trace, 100, Config{Threshold: 0.5, Refractory: 0.2})
	if len(peaks) != 4 {
		t.Fatalf("peaks = %v, want 4", peaks)
	}
}

func TestFromPeaksErrors(t *testing.T) {
	if _, err := FromPeaks([]int{10}, 100); !errors.Is(err, ErrNoPeaks) {
		t.Fatalf("FromPeaks() error = %v, want ErrNoPeaks", err)
	}
	if _, err := FromPeaks([]int{10, 20}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestEstimatePulseTrain(t *testing.T) {
	trace := testutil.PulseTrain(100, 10, 1, 2000)
	res, err := Estimate(trace, 100, Config{})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if math.Abs(res.BPM-60) > 0.5 {
		t.Fatalf("bpm = %v, want 60", res.BPM)
	}
	if math.Abs(res.Lag-100) > 0.5 {
		t.Fatalf("lag = %v, want 100", res.Lag)
	}
	if res.Confidence <= 0.5 || res.Confidence > 1 {
		t.Fatalf("confidence = %v", res.Confidence)
	}
}

func TestEstimateWithNoise(t *testing.T) {
	trace := testutil.Add(testutil.PulseTrain(80, 8, 1, 2400), testutil.DeterministicNoise(7, 0.1, 2400))
	res, err := Estimate(trace, 100, Config{})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if math.Abs(res.BPM-75) > 1 {
		t.Fatalf("bpm = %v, want 75", res.BPM)
	}
}

func TestEstimateErrors(t *testing.T) {
	if _, err := Estimate(make([]float64, 20), 100, Config{}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("Estimate() error = %v, want ErrTooShort", err)
	}
	if _, err := Estimate(make([]float64, 1000), 100, Config{}); !errors.Is(err, ErrNoPeaks) {
		t.Fatalf("Estimate() error = %v, want ErrNoPeaks", err)
	}
	if _, err := Estimate(make([]float64, 1000), 0, Config{}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestNormalizeConfig(t *testing.T) {
	cfg := normalizeConfig(Config{MinBPM: 300, MaxBPM: 30})
	if cfg.MinBPM != 30 || cfg.MaxBPM != 300 {
		t.Fatalf("bpm range = [%v, %v], want [30, 300]", cfg.MinBPM, cfg.MaxBPM)
	}
	if cfg.Threshold != defaultThreshold || cfg.Refractory != defaultRefractory {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
