// Command ecginfo prints the beat schedule of synthesized ECG windows.
//
// Usage:
//
//	ecginfo [flags]
//
// It generates consecutive windows with shared cycle counters, prints one row
// per beat and measures the heart rate of the concatenated trace.
//
// Examples:
//
//	ecginfo -hr 90
//	ecginfo -windows 4 -r 0/4
//	ecginfo -p 2/3 -svg window.svg
//	ecginfo -settings session.json -csv trace.csv
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
	"github.com/cwbudde/algo-ecg/internal/monitor"
	"github.com/cwbudde/algo-ecg/internal/simulator"
	"github.com/cwbudde/algo-ecg/measure/heartrate"
)

type window struct {
	beats  []ecg.Beat
	points []ecg.Point
}

func main() {
	hr := flag.Float64("hr", 70, "heart rate in bpm")
	np := flag.Int("np", 1, "P waves per beat")
	windows := flag.Int("windows", 2, "number of consecutive windows")
	width := flag.Float64("width", 1000, "display width in px")
	height := flag.Float64("height", 400, "display height in px")
	pps := flag.Float64("pps", 150, "sweep speed in px/s")
	ppmv := flag.Float64("ppmv", 100, "vertical gain in px/mV")
	rPattern := flag.String("r", "", "R pattern as count/interval, e.g. 0/4")
	pPattern := flag.String("p", "", "P pattern as count/interval, e.g. 2/3")
	settingsPath := flag.String("settings", "", "JSON settings document (overrides -hr, -np, -r, -p)")
	svgPath := flag.String("svg", "", "write an SVG snapshot of the last window")
	csvPath := flag.String("csv", "", "write all samples as CSV")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ecginfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the beat schedule of synthesized ECG windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ecginfo -hr 90\n")
		fmt.Fprintf(os.Stderr, "  ecginfo -windows 4 -r 0/4\n")
		fmt.Fprintf(os.Stderr, "  ecginfo -p 2/3 -svg window.svg\n")
	}
	flag.Parse()

	p := ecg.DefaultWaveParams()
	p.HeartRate = *hr
	p.PCount = *np

	cfg := ecg.DefaultConfig()
	cfg.Display = core.ApplyDisplayOptions(
		core.WithWidth(*width),
		core.WithHeight(*height),
		core.WithPixelsPerSecond(*pps),
		core.WithPixelsPerMv(*ppmv),
	)

	var err error
	if cfg.R, err = parsePattern(*rPattern); err != nil {
		fail("-r: %v", err)
	}
	if cfg.P, err = parsePattern(*pPattern); err != nil {
		fail("-p: %v", err)
	}
	if *settingsPath != "" {
		if err := loadSettings(*settingsPath, &p, &cfg); err != nil {
			fail("%v", err)
		}
	}

	if err := p.Validate(); err != nil {
		fail("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	if *windows < 1 {
		fail("-windows must be at least 1")
	}

	ws := generate(p, cfg, *windows)

	if err := printSchedule(os.Stdout, ws); err != nil {
		fail("failed to write schedule: %v", err)
	}
	printHeartRate(os.Stdout, ws, cfg.Display)

	if *svgPath != "" {
		if err := writeFile(*svgPath, func(w io.Writer) error {
			return monitor.WriteSVG(w, cfg.Display, monitor.Snapshot(ws[len(ws)-1].points))
		}); err != nil {
			fail("%v", err)
		}
	}
	if *csvPath != "" {
		if err := writeFile(*csvPath, func(w io.Writer) error {
			return writeCSV(w, ws, cfg.Display)
		}); err != nil {
			fail("%v", err)
		}
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// parsePattern parses "count/interval". An empty string disables the pattern.
func parsePattern(s string) (ecg.Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ecg.Pattern{}, nil
	}
	countStr, intervalStr, ok := strings.Cut(s, "/")
	if !ok {
		return ecg.Pattern{}, fmt.Errorf("pattern %q is not count/interval", s)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return ecg.Pattern{}, fmt.Errorf("pattern count: %w", err)
	}
	interval, err := strconv.Atoi(strings.TrimSpace(intervalStr))
	if err != nil {
		return ecg.Pattern{}, fmt.Errorf("pattern interval: %w", err)
	}
	if count < 0 || interval < 0 {
		return ecg.Pattern{}, errors.New("pattern values must be non-negative")
	}
	return ecg.Pattern{Enabled: true, Count: count, Interval: interval}, nil
}

func loadSettings(path string, p *ecg.WaveParams, cfg *ecg.Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	var s simulator.Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode settings %s: %w", path, err)
	}
	*p = s.Params
	cfg.R = s.R
	cfg.P = s.P
	cfg.Custom = s.Custom
	if s.PixelsPerMv > 0 {
		cfg.Display.PixelsPerMv = s.PixelsPerMv
	}
	return nil
}

// generate produces n consecutive windows sharing one set of cycle counters.
func generate(p ecg.WaveParams, cfg ecg.Config, n int) []window {
	var st ecg.CycleState
	ws := make([]window, n)
	for i := range ws {
		ws[i].beats = ecg.Schedule(p, cfg, &st)
		ws[i].points = ecg.Render(ws[i].beats, cfg.Display)
	}
	return ws
}

func printSchedule(w io.Writer, ws []window) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Window\tBeat\tStart [s]\tDuration [s]\tScale\tP\tQRS\tShape\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t---------\t------------\t-----\t-\t---\t-----\n"); err != nil {
		return err
	}
	for i, win := range ws {
		for _, b := range win.beats {
			shape := "base"
			if b.Custom >= 0 {
				shape = fmt.Sprintf("custom #%d", b.Custom)
			}
			if _, err := fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.4f\t%.4f\t%d\t%d\t%s\n",
				i, b.Index, b.Start, b.Duration, b.Scale, b.PCount, b.RCount, shape); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func printHeartRate(w io.Writer, ws []window, d core.Display) {
	var trace []float64
	for _, win := range ws {
		trace = append(trace, ecg.Voltages(win.points, d)...)
	}
	sr := d.PixelsPerSecond

	fmt.Fprintf(w, "\nSamples: %d (%.2f s)\n", len(trace), float64(len(trace))/sr)
	if bpm, err := heartrate.FromPeaks(heartrate.DetectPeaks(trace, sr, heartrate.Config{}), sr); err == nil {
		fmt.Fprintf(w, "R-R rate: %.1f bpm\n", bpm)
	} else {
		fmt.Fprintf(w, "R-R rate: n/a (%v)\n", err)
	}
	if res, err := heartrate.Estimate(trace, sr, heartrate.Config{}); err == nil {
		fmt.Fprintf(w, "Autocorrelation rate: %.1f bpm (confidence %.2f)\n", res.BPM, res.Confidence)
	} else {
		fmt.Fprintf(w, "Autocorrelation rate: n/a (%v)\n", err)
	}
}

func writeCSV(w io.Writer, ws []window, d core.Display) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"window", "x", "y", "mv"}); err != nil {
		return err
	}
	for i, win := range ws {
		for _, pt := range win.points {
			rec := []string{
				strconv.Itoa(i),
				strconv.FormatFloat(pt.X, 'f', 3, 64),
				strconv.FormatFloat(pt.Y, 'f', 3, 64),
				strconv.FormatFloat(ecg.Voltage(pt, d), 'f', 5, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
