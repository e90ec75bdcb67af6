// Package monitor implements the live machine dashboard TUI using
// BubbleTea: it polls the sensor API on a fixed cadence, classifies each
// snapshot and renders color-coded status, cards and alerts.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/machinewise/internal/sensor"
	"github.com/luki/machinewise/internal/status"
)

// PollInterval is the fixed cadence between automatic refreshes.
const PollInterval = 5 * time.Second

const fetchErrorMessage = "Failed to fetch sensor data. Please check if the backend server is running."

// Fetcher retrieves the current snapshot.
type Fetcher interface {
	Snapshot(ctx context.Context) (*sensor.Snapshot, error)
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	snap *sensor.Snapshot
	time time.Time
}

type fetchErrMsg struct{ err error }

func (e fetchErrMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard.
type Model struct {
	fetcher   Fetcher
	sched     *schedule
	state     pollState
	spinner   spinner.Model
	log       *slog.Logger
	now       func() time.Time
	source    string
	width     int
	height    int
	scroll    int
	startTime time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithInterval overrides PollInterval.
func WithInterval(d time.Duration) Option {
	return func(m *Model) { m.sched.interval = d }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithClock overrides the clock used for last-update times.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithSource sets the API address shown in the title bar.
func WithSource(s string) Option {
	return func(m *Model) { m.source = s }
}

// New creates the initial model. Canceling ctx tears the poller down the
// same way quitting does.
func New(ctx context.Context, f Fetcher, opts ...Option) Model {
	m := Model{
		fetcher: f,
		sched:   newSchedule(ctx, PollInterval),
		state:   loadingState{},
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(colorTitleFg)),
		),
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.startTime = m.now()
	return m
}

// Run launches the dashboard TUI and blocks until it exits.
func Run(ctx context.Context, f Fetcher, opts ...Option) error {
	p := tea.NewProgram(
		New(ctx, f, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Phase reports the current poller state.
func (m Model) Phase() Phase {
	if m.sched.stopped() {
		return PhaseStopped
	}
	return m.state.phase()
}

// Snapshot returns the held snapshot, which is nil until a fetch succeeds.
func (m Model) Snapshot() *sensor.Snapshot {
	return m.state.snapshot()
}

// Status classifies the held snapshot.
func (m Model) Status() status.Status {
	return status.Classify(m.state.snapshot())
}

// ── Commands ─────────────────────────────────────────────────────────

// fetch issues one request. Once the poller is stopped no new request is
// started.
func (m Model) fetch() tea.Cmd {
	if m.sched.stopped() {
		return nil
	}
	f, ctx, now := m.fetcher, m.sched.fetchContext(), m.now
	return func() tea.Msg {
		snap, err := f.Snapshot(ctx)
		if err != nil {
			return fetchErrMsg{err}
		}
		return snapshotMsg{snap: snap, time: now()}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.sched.next(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.teardown()
			return m, tea.Quit
		case "r", "enter":
			if _, failed := m.state.(failedState); failed {
				m.log.Info("manual_retry")
				return m, m.fetch()
			}
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			if m.scroll < m.maxScrollOffset() {
				m.scroll++
			}
		case "home":
			m.scroll = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll = min(m.scroll, m.maxScrollOffset())

	case tickMsg:
		if m.sched.stopped() {
			return m, nil
		}
		return m, tea.Batch(m.fetch(), m.sched.next())

	case snapshotMsg:
		if m.sched.stopped() {
			m.log.Debug("late_result_discarded")
			return m, nil
		}
		m.state = readyState{snap: msg.snap, updated: msg.time}
		m.log.Debug("snapshot_received",
			slog.Float64("temperature", msg.snap.Temperature),
			slog.Float64("vibration", msg.snap.Vibration),
			slog.String("status", status.Classify(msg.snap).String()),
		)

	case fetchErrMsg:
		if m.sched.stopped() {
			m.log.Debug("late_result_discarded")
			return m, nil
		}
		m.log.Error("fetch_failed", slog.Any("err", msg.err))
		m.state = failedState{
			message: fetchErrorMessage,
			err:     msg.err,
			prior:   m.state.snapshot(),
		}

	case spinner.TickMsg:
		if _, loading := m.state.(loadingState); !loading || m.sched.stopped() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) teardown() {
	if !m.sched.stopped() {
		m.log.Info("poller_stopped", slog.String("uptime", fmtDuration(m.now().Sub(m.startTime))))
	}
	m.sched.stop()
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mn := d / time.Minute
	d -= mn * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mn, s)
	}
	return fmt.Sprintf("%dm%02ds", mn, s)
}
