// Package chart provides color-coded value text and threshold scale bars
// for sensor measurements.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/machinewise/internal/sensor"
)

// Palette shared with the dashboard.
var (
	ColorOk      = lipgloss.Color("78")  // soft green
	ColorWarm    = lipgloss.Color("220") // yellow
	ColorCrit    = lipgloss.Color("196") // red
	ColorNeutral = lipgloss.Color("252")
)

// warmRatio is the fraction of the threshold at which a value turns yellow.
const warmRatio = 0.85

// ValueColor returns the color for v given the field's threshold.
func ValueColor(v float64, f sensor.Field) lipgloss.Color {
	switch {
	case !f.HasThreshold:
		return ColorNeutral
	case f.Exceeded(v):
		return ColorCrit
	case v >= f.Threshold*warmRatio:
		return ColorWarm
	default:
		return ColorOk
	}
}

// RenderValue renders "value unit" with color coding.
func RenderValue(v float64, f sensor.Field) string {
	style := lipgloss.NewStyle().Foreground(ValueColor(v, f)).Bold(true)
	if f.Exceeded(v) {
		style = style.Underline(true)
	}
	return style.Render(fmt.Sprintf("%.1f", v)) + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render(f.Unit)
}

// RenderScale renders a bar spanning the field's range with the current
// position and, for thresholded fields, the threshold marker.
func RenderScale(current float64, f sensor.Field, width int) string {
	if width <= 0 {
		return ""
	}

	span := f.Max - f.Min
	if span <= 0 {
		span = 1
	}
	pos := func(v float64) int {
		p := int(float64(width-1) * (v - f.Min) / span)
		if p < 0 {
			return 0
		}
		if p >= width {
			return width - 1
		}
		return p
	}

	threshPos := -1
	if f.HasThreshold && f.Threshold > f.Min && f.Threshold < f.Max {
		threshPos = pos(f.Threshold)
	}
	curPos := pos(current)

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	over := lipgloss.NewStyle().Foreground(lipgloss.Color("52"))
	mark := lipgloss.NewStyle().Foreground(ColorWarm)
	cur := lipgloss.NewStyle().Foreground(ValueColor(current, f)).Bold(true)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			sb.WriteString(cur.Render("◆"))
		case i == threshPos:
			sb.WriteString(mark.Render("▪"))
		case threshPos >= 0 && i > threshPos:
			sb.WriteString(over.Render("·"))
		default:
			sb.WriteString(dot.Render("·"))
		}
	}
	return sb.String()
}
