package main

import (
	"bytes"
	"encoding/csv"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in      string
		want    ecg.Pattern
		wantErr bool
	}{
		{"", ecg.Pattern{}, false},
		{"0/4", ecg.Pattern{Enabled: true, Count: 0, Interval: 4}, false},
		{" 2 / 3 ", ecg.Pattern{Enabled: true, Count: 2, Interval: 3}, false},
		{"3", ecg.Pattern{}, true},
		{"a/2", ecg.Pattern{}, true},
		{"-1/2", ecg.Pattern{}, true},
	}
	for _, tt := range tests {
		got, err := parsePattern(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parsePattern(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parsePattern(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateMatchesSchedule(t *testing.T) {
	cfg := ecg.DefaultConfig()
	ws := generate(ecg.DefaultWaveParams(), cfg, 3)
	if len(ws) != 3 {
		t.Fatalf("windows = %d", len(ws))
	}
	next := 0
	for i, w := range ws {
		if len(w.beats) == 0 || len(w.points) == 0 {
			t.Fatalf("window %d is empty", i)
		}
		if w.beats[0].Index != next {
			t.Fatalf("window %d starts at beat %d, want %d", i, w.beats[0].Index, next)
		}
		next = w.beats[len(w.beats)-1].Index + 1
	}

	var st ecg.CycleState
	for i, w := range ws {
		want := ecg.Generate(ecg.DefaultWaveParams(), cfg, &st)
		if !slices.Equal(w.points, want) {
			t.Fatalf("window %d points differ from Generate", i)
		}
	}
}

func TestPrintSchedule(t *testing.T) {
	cfg := ecg.DefaultConfig()
	cfg.R = ecg.Pattern{Enabled: true, Count: 0, Interval: 2}
	ws := generate(ecg.DefaultWaveParams(), cfg, 1)

	var buf bytes.Buffer
	if err := printSchedule(&buf, ws); err != nil {
		t.Fatalf("printSchedule() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if got, want := len(lines), 2+len(ws[0].beats); got != want {
		t.Fatalf("lines = %d, want %d", got, want)
	}
	if !strings.HasPrefix(lines[0], "Window") {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestWriteCSV(t *testing.T) {
	cfg := ecg.DefaultConfig()
	ws := generate(ecg.DefaultWaveParams(), cfg, 2)

	var buf bytes.Buffer
	if err := writeCSV(&buf, ws, cfg.Display); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got, want := len(recs), 1+len(ws[0].points)+len(ws[1].points); got != want {
		t.Fatalf("records = %d, want %d", got, want)
	}
}
