// Package config loads runtime settings for the MachineWise binaries from
// the environment, optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort   = "5000"
	DefaultAPIURL = "http://localhost:5000"
)

// Server holds the settings of the sensor API server.
type Server struct {
	Port     string
	LogLevel slog.Level
}

// Addr returns the listen address for Port.
func (s Server) Addr() string {
	return ":" + s.Port
}

// Dashboard holds the settings of the terminal dashboard.
type Dashboard struct {
	APIURL   string
	LogFile  string // empty disables logging
	LogLevel slog.Level
}

// LoadServer reads PORT and LOG_LEVEL. Files default to ".env"; a missing
// file is not an error.
func LoadServer(files ...string) (Server, error) {
	if err := loadEnvFiles(files); err != nil {
		return Server{}, err
	}

	cfg := Server{Port: DefaultPort}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	n, err := strconv.Atoi(cfg.Port)
	if err != nil || n < 1 || n > 65535 {
		return Server{}, fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", cfg.Port)
	}

	lvl, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Server{}, err
	}
	cfg.LogLevel = lvl
	return cfg, nil
}

// LoadDashboard reads MACHINEWISE_API, DASHBOARD_LOG and LOG_LEVEL.
func LoadDashboard(files ...string) (Dashboard, error) {
	if err := loadEnvFiles(files); err != nil {
		return Dashboard{}, err
	}

	cfg := Dashboard{
		APIURL:  DefaultAPIURL,
		LogFile: strings.TrimSpace(os.Getenv("DASHBOARD_LOG")),
	}
	if v := strings.TrimSpace(os.Getenv("MACHINEWISE_API")); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Dashboard{}, fmt.Errorf("invalid MACHINEWISE_API %q: must be an http(s) URL", cfg.APIURL)
	}

	lvl, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Dashboard{}, err
	}
	cfg.LogLevel = lvl
	return cfg, nil
}

// loadEnvFiles never overrides variables that are already set.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func parseLevel(raw string) (slog.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: want debug, info, warn or error", raw)
	}
	return lvl, nil
}
