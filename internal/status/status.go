// Package status derives the machine health label from a sensor snapshot.
package status

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/machinewise/internal/sensor"
)

// Status is the derived machine health.
type Status int

const (
	Unknown Status = iota
	Healthy
	Warning
	Critical
)

// Classify maps a snapshot to a status. A nil snapshot is Unknown.
func Classify(s *sensor.Snapshot) Status {
	if s == nil {
		return Unknown
	}
	hot := s.Temperature > sensor.TemperatureThreshold
	shaking := s.Vibration > sensor.VibrationThreshold
	switch {
	case hot && shaking:
		return Critical
	case hot || shaking:
		return Warning
	default:
		return Healthy
	}
}

func (s Status) String() string {
	switch s {
	case Healthy:
		return "Healthy"
	case Warning:
		return "Warning"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Color returns the badge background for the status.
func (s Status) Color() lipgloss.Color {
	switch s {
	case Healthy:
		return lipgloss.Color("#28a745")
	case Warning:
		return lipgloss.Color("#fd7e14")
	case Critical:
		return lipgloss.Color("#dc3545")
	default:
		return lipgloss.Color("#808080")
	}
}

// Icon returns the badge icon for the status.
func (s Status) Icon() string {
	switch s {
	case Healthy:
		return "✅"
	case Warning:
		return "⚠️"
	case Critical:
		return "🚨"
	default:
		return "❓"
	}
}

// Alert returns the banner text shown for non-healthy states, or "" when no
// banner applies.
func (s Status) Alert() string {
	switch s {
	case Critical:
		return "Immediate attention required!"
	case Warning:
		return "Please monitor closely."
	default:
		return ""
	}
}
