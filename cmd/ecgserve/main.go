// Command ecgserve runs the ECG simulator as an HTTP and websocket service.
//
// Configuration comes from the environment (HTTP_ADDR, BUS, NATS_URL,
// MQTT_BROKER, ...) and can be overridden with flags.
//
// Examples:
//
//	ecgserve
//	ecgserve -addr :9000 -bus nats -nats nats://127.0.0.1:4222
//	BUS=mqtt MQTT_BROKER=tcp://broker:1883 ecgserve
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cwbudde/algo-ecg/internal/config"
	"github.com/cwbudde/algo-ecg/internal/server"
	"github.com/cwbudde/algo-ecg/internal/stream"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.App.HTTPAddr, "http listen address")
	bus := flag.String("bus", cfg.Stream.Bus, "message bus: none, nats or mqtt")
	natsURL := flag.String("nats", cfg.Stream.NATSURL, "NATS url")
	mqttBroker := flag.String("mqtt", cfg.Stream.MQTTBroker, "MQTT broker url")
	subject := flag.String("subject", cfg.Stream.Subject, "subject prefix for published windows")
	logLevel := flag.String("log-level", cfg.App.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	cfg.App.HTTPAddr = *addr
	cfg.App.LogLevel = *logLevel
	cfg.Stream.Bus = *bus
	cfg.Stream.NATSURL = *natsURL
	cfg.Stream.MQTTBroker = *mqttBroker
	cfg.Stream.Subject = *subject

	logger := config.InitLogger(os.Stdout, cfg.App.LogLevel, cfg.App.Env)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	pub, err := stream.Open(cfg.Stream.Publisher())
	if err != nil {
		logger.Error("failed to open bus", "bus", cfg.Stream.Bus, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("failed to close bus", "error", err)
		}
	}()

	srv := server.New(cfg.Display, pub, cfg.Stream.Subject, logger)
	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.App.HTTPAddr, "bus", cfg.Stream.Bus, "display", cfg.Display)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	logger.Info("server stopped", "sessions", srv.Count())
}
