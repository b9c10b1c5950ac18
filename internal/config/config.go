// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/stream"
)

// Config is the full runtime configuration of the ECG binaries.
type Config struct {
	App     AppConfig
	Display core.Display
	Stream  StreamConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	HTTPAddr string
	LogLevel string
	Env      string
}

// StreamConfig selects the message bus and the subject prefix.
type StreamConfig struct {
	Bus          string
	NATSURL      string
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTQoS      int
	Subject      string
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset or unparsable.
func Load() *Config {
	d := core.DefaultDisplay()

	return &Config{
		App: AppConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Env:      getEnv("ENV", "development"),
		},
		Display: core.Display{
			Width:           getEnvAsFloat("DISPLAY_WIDTH", d.Width),
			Height:          getEnvAsFloat("DISPLAY_HEIGHT", d.Height),
			PixelsPerSecond: getEnvAsFloat("PIXELS_PER_SECOND", d.PixelsPerSecond),
			PixelsPerMv:     getEnvAsFloat("PIXELS_PER_MV", d.PixelsPerMv),
		}.Normalized(),
		Stream: StreamConfig{
			Bus:          getEnv("BUS", stream.BusNone),
			NATSURL:      getEnv("NATS_URL", "nats://127.0.0.1:4222"),
			MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			MQTTClientID: getEnv("MQTT_CLIENT_ID", "algo-ecg"),
			MQTTUsername: getEnv("MQTT_USERNAME", ""),
			MQTTPassword: getEnv("MQTT_PASSWORD", ""),
			MQTTQoS:      getEnvAsInt("MQTT_QOS", 0),
			Subject:      getEnv("STREAM_SUBJECT", "ecg"),
		},
	}
}

// Publisher converts the stream section into the publisher configuration.
func (s StreamConfig) Publisher() stream.Config {
	return stream.Config{
		Bus:          s.Bus,
		NATSURL:      s.NATSURL,
		MQTTBroker:   s.MQTTBroker,
		MQTTClientID: s.MQTTClientID,
		MQTTUsername: s.MQTTUsername,
		MQTTPassword: s.MQTTPassword,
		MQTTQoS:      s.MQTTQoS,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
