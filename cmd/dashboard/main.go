// Dashboard is the terminal front end of MachineWise. It polls the sensor
// API every five seconds and renders the machine status.
//
// Usage: MACHINEWISE_API=http://localhost:5000 dashboard
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/machinewise/internal/client"
	"github.com/luki/machinewise/internal/config"
	"github.com/luki/machinewise/internal/logging"
	"github.com/luki/machinewise/internal/monitor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadDashboard()
	if err != nil {
		return err
	}

	// stdout belongs to the TUI, so logs go to a file or nowhere.
	var logw io.Writer
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "dashboard")
		if err != nil {
			return err
		}
		defer f.Close()
		logw = f
	}
	log := logging.NewText(logw, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.APIURL, nil)
	err = monitor.Run(ctx, c,
		monitor.WithLogger(log),
		monitor.WithSource(c.BaseURL()),
	)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
