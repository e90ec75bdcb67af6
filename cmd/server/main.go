// Server exposes synthetic machine sensor readings over HTTP.
//
// Usage: PORT=5000 server
//
// Endpoints:
//
//	GET /api/sensor-data   one fresh snapshot
//	GET /api/health        liveness probe
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luki/machinewise/internal/api"
	"github.com/luki/machinewise/internal/config"
	"github.com/luki/machinewise/internal/logging"
	"github.com/luki/machinewise/internal/sensor"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewConsole(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(sensor.NewGenerator(), log),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown_failed", slog.Any("err", err))
		}
	}()

	log.Info("MachineWise Backend running", slog.String("port", cfg.Port))
	log.Info("Sensor data endpoint", slog.String("url", "http://localhost:"+cfg.Port+api.SensorDataPath))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("listen_failed", slog.Any("err", err))
		os.Exit(1)
	}
	<-done
	log.Info("server_stopped")
}
