package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "BUS", "DISPLAY_WIDTH", "PIXELS_PER_MV", "MQTT_QOS", "STREAM_SUBJECT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.App.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.App.HTTPAddr)
	}
	if cfg.Stream.Bus != "none" {
		t.Fatalf("Bus = %q", cfg.Stream.Bus)
	}
	if cfg.Display.Width != 1000 || cfg.Display.PixelsPerMv != 100 {
		t.Fatalf("Display = %+v", cfg.Display)
	}
	if cfg.Stream.Subject != "ecg" {
		t.Fatalf("Subject = %q", cfg.Stream.Subject)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("BUS", "nats")
	t.Setenv("DISPLAY_WIDTH", "1500")
	t.Setenv("PIXELS_PER_MV", "-4")
	t.Setenv("MQTT_QOS", "2")
	t.Setenv("DISPLAY_HEIGHT", "tall")

	cfg := Load()
	if cfg.App.HTTPAddr != ":9000" {
		t.Fatalf("HTTPAddr = %q", cfg.App.HTTPAddr)
	}
	if cfg.Display.Width != 1500 {
		t.Fatalf("Width = %v, want 1500", cfg.Display.Width)
	}
	if cfg.Display.Height != 400 {
		t.Fatalf("Height = %v, want default 400", cfg.Display.Height)
	}
	if cfg.Display.PixelsPerMv != 100 {
		t.Fatalf("PixelsPerMv = %v, want normalized 100", cfg.Display.PixelsPerMv)
	}

	bus := cfg.Stream.Publisher()
	if bus.Bus != "nats" || bus.MQTTQoS != 2 {
		t.Fatalf("Publisher() = %+v", bus)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogger(&buf, "warn", "development")
	logger.Info("dropped")
	logger.Warn("kept", "bpm", 70)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v (%q)", err, buf.String())
	}
	if rec["msg"] != "kept" {
		t.Fatalf("msg = %v", rec["msg"])
	}
	ts, _ := rec["time"].(string)
	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`).MatchString(ts) {
		t.Fatalf("time = %q, want local layout", ts)
	}
	if _, ok := rec["source"]; !ok {
		t.Fatal("expected source attribute outside production")
	}
}
