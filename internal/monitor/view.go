package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/machinewise/internal/chart"
	"github.com/luki/machinewise/internal/sensor"
	"github.com/luki/machinewise/internal/status"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorCardName = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("208")
	colorCrit     = lipgloss.Color("196")
	colorWhite    = lipgloss.Color("#ffffff")
)

const defaultWidth = 80

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	content := m.content()
	if m.height == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	start := min(m.scroll, maxScroll(len(lines), m.height))
	end := min(start+visibleLines(m.height), len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m Model) content() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	contentWidth := width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	switch st := m.state.(type) {
	case loadingState:
		sections = append(sections, m.renderLoading(contentWidth))
	case failedState:
		sections = append(sections, renderError(st, contentWidth))
	case readyState:
		sections = append(sections, renderReady(st, contentWidth)...)
	}

	sections = append(sections, m.renderFooter(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// maxScrollOffset is the largest useful scroll offset for the current
// content and terminal height.
func (m Model) maxScrollOffset() int {
	if m.height == 0 {
		return 0
	}
	return maxScroll(strings.Count(m.content(), "\n")+1, m.height)
}

func visibleLines(height int) int {
	return max(height, 5)
}

func maxScroll(lines, height int) int {
	return max(lines-visibleLines(height), 0)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("MACHINEWISE")
	subtitle := lipgloss.NewStyle().
		Foreground(colorDim).
		Render("  Real-time Industrial Machine Monitoring")

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(m.now().Sub(m.startTime))))
	statusParts = append(statusParts, uptime)

	if m.source != "" {
		src := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.source)
		statusParts = append(statusParts, src)
	}

	if m.sched.stopped() {
		stopped := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render("STOPPED")
		statusParts = append(statusParts, stopped)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	left := logo + subtitle
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(left + filler + right)
}

func (m Model) renderLoading(width int) string {
	return lipgloss.NewStyle().
		Foreground(colorDim).
		Width(width).
		Align(lipgloss.Center).
		Padding(2, 0).
		Render(m.spinner.View() + " Loading sensor data...")
}

func renderError(st failedState, width int) string {
	title := lipgloss.NewStyle().
		Foreground(colorCrit).
		Bold(true).
		Render("⚠️ Connection Error")
	msg := lipgloss.NewStyle().
		Foreground(colorLabel).
		Render(st.message)
	button := lipgloss.NewStyle().
		Foreground(colorWhite).
		Background(colorBorder).
		Padding(0, 2).
		Render("Retry Connection (r)")

	rows := []string{title, "", msg, "", button}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCrit).
		Padding(1, 2).
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func renderReady(st readyState, width int) []string {
	s := status.Classify(st.snap)

	badge := lipgloss.NewStyle().
		Background(s.Color()).
		Foreground(colorWhite).
		Bold(true).
		Padding(0, 2).
		Render(s.Icon() + " Machine Status: " + s.String())
	updated := lipgloss.NewStyle().
		Foreground(colorDim).
		Render("Last updated: " + st.updated.Format(time.TimeOnly))

	header := lipgloss.NewStyle().
		Padding(1, 1, 0, 1).
		Render(badge + "   " + updated)

	sections := []string{header, renderCards(st.snap, width)}

	if alert := s.Alert(); alert != "" {
		color := colorWarn
		if s == status.Critical {
			color = colorCrit
		}
		banner := lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(color).
			Foreground(color).
			Padding(0, 1).
			Width(width).
			Render(lipgloss.NewStyle().Bold(true).Render("⚠️ Alert:") +
				fmt.Sprintf(" Machine status is %s. %s", s, alert))
		sections = append(sections, banner)
	}
	return sections
}

// renderCards lays the four measurement cards out two per row, or one per
// row when the terminal is narrow.
func renderCards(snap *sensor.Snapshot, width int) string {
	perRow := 2
	if width < 76 {
		perRow = 1
	}
	cardWidth := width/perRow - 2

	var rows []string
	var row []string
	for _, f := range sensor.Fields {
		row = append(row, renderCard(f, snap.Value(f), cardWidth))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(f sensor.Field, v float64, width int) string {
	exceeded := f.Exceeded(v)
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	title := f.Icon + " " + lipgloss.NewStyle().
		Bold(true).
		Foreground(colorCardName).
		Render(f.Title)
	rows := []string{title, chart.RenderValue(v, f)}

	if f.HasThreshold {
		thresh := dimS.Render("Threshold: " + strconv.FormatFloat(f.Threshold, 'f', -1, 64) + " " + f.Unit)
		if exceeded {
			thresh += "  " + lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("⚠ Exceeded")
		}
		rows = append(rows, thresh)
	}

	scaleWidth := width - 4
	if scaleWidth > 40 {
		scaleWidth = 40
	}
	rows = append(rows, chart.RenderScale(v, f, scaleWidth))

	border := colorBorder
	if exceeded {
		border = colorCrit
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := okS + dimS.Render(" healthy ") +
		warnS + dimS.Render(" warning ") +
		critS + dimS.Render(" critical ") +
		dimS.Render(fmt.Sprintf(" every %s", m.sched.interval))

	keyS := lipgloss.NewStyle().Foreground(colorLabel)
	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  r") + keyS.Render(":retry") +
		dimS.Render("  j/k") + keyS.Render(":scroll")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}
