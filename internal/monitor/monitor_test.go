package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/machinewise/internal/sensor"
	"github.com/luki/machinewise/internal/status"
)

const testInterval = 20 * time.Millisecond

type fetchResult struct {
	snap *sensor.Snapshot
	err  error
}

// fakeFetcher replays results in order; the last one repeats.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	results []fetchResult
}

func (f *fakeFetcher) Snapshot(_ context.Context) (*sensor.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return nil, errors.New("no result configured")
	}
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.snap, r.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	critical = &sensor.Snapshot{Temperature: 90, Vibration: 25, Current: 30, Voltage: 220}
	warning  = &sensor.Snapshot{Temperature: 50, Vibration: 25, Current: 30, Voltage: 220}
	healthy  = &sensor.Snapshot{Temperature: 50, Vibration: 10, Current: 30, Voltage: 220}
	errDown  = errors.New("connection refused")
)

var fixedNow = time.Date(2026, 2, 21, 14, 30, 5, 0, time.Local)

func newTestModel(t *testing.T, f Fetcher) Model {
	t.Helper()
	m := New(context.Background(), f,
		WithInterval(testInterval),
		WithClock(func() time.Time { return fixedNow }),
	)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120})
	return next.(Model)
}

// run executes cmd and any batched commands, returning their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies msgs in order, skipping spinner and tick messages so that
// the test drives the schedule explicitly.
func feed(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		switch msg.(type) {
		case tickMsg, spinner.TickMsg:
			continue
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func hasMsg[T tea.Msg](msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			return true
		}
	}
	return false
}

func TestLoadingBeforeFirstResult(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{results: []fetchResult{{snap: healthy}}})

	if m.Phase() != PhaseLoading {
		t.Fatalf("phase: got %v, want loading", m.Phase())
	}
	if m.Status() != status.Unknown {
		t.Errorf("status: got %v, want Unknown", m.Status())
	}
	view := m.View()
	if !strings.Contains(view, "Loading sensor data...") {
		t.Errorf("expected loading indicator:\n%s", view)
	}
}

func TestInitFetchesImmediatelyAndArmsSchedule(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{snap: healthy}}}
	m := newTestModel(t, f)

	msgs := run(m.Init())
	if f.Calls() != 1 {
		t.Errorf("fetches after Init: got %d, want 1", f.Calls())
	}
	if !hasMsg[snapshotMsg](msgs) {
		t.Error("expected a snapshot message from the initial fetch")
	}
	if !hasMsg[tickMsg](msgs) {
		t.Error("expected the schedule to be armed")
	}
}

func TestFirstFetchFails(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{err: errDown}}}
	m := newTestModel(t, f)

	m = feed(m, run(m.Init())...)

	if m.Phase() != PhaseFailed {
		t.Fatalf("phase: got %v, want failed", m.Phase())
	}
	if m.Snapshot() != nil {
		t.Errorf("expected no snapshot, got %+v", m.Snapshot())
	}

	view := m.View()
	for _, want := range []string{"Connection Error", fetchErrorMessage, "Retry Connection"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	for _, unwanted := range []string{"Loading sensor data", "Temperature", "Machine Status"} {
		if strings.Contains(view, unwanted) {
			t.Errorf("view should not contain %q:\n%s", unwanted, view)
		}
	}
}

func TestCriticalSnapshotRendering(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{snap: critical}}}
	m := newTestModel(t, f)

	m = feed(m, run(m.Init())...)

	if m.Phase() != PhaseReady {
		t.Fatalf("phase: got %v, want ready", m.Phase())
	}
	if m.Status() != status.Critical {
		t.Errorf("status: got %v, want Critical", m.Status())
	}

	view := m.View()
	for _, want := range []string{
		"Machine Status: Critical",
		"Machine status is Critical. Immediate attention required!",
		"Last updated: 14:30:05",
		"Threshold: 80 °C",
		"Threshold: 20 mm/s",
		"Current",
		"30.0",
		"Voltage",
		"220.0",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if n := strings.Count(view, "Exceeded"); n != 2 {
		t.Errorf("exceeded indicators: got %d, want 2", n)
	}
	if n := strings.Count(view, "Threshold:"); n != 2 {
		t.Errorf("threshold annotations: got %d, want 2 (current and voltage have none)", n)
	}
	if strings.Contains(view, "Loading sensor data") {
		t.Error("loading indicator shown after data arrived")
	}
}

func TestWarningAndHealthyBanners(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m = feed(m, snapshotMsg{snap: warning, time: fixedNow})
	view := m.View()
	if !strings.Contains(view, "Machine status is Warning. Please monitor closely.") {
		t.Errorf("expected warning banner:\n%s", view)
	}
	if n := strings.Count(view, "Exceeded"); n != 1 {
		t.Errorf("exceeded indicators: got %d, want 1", n)
	}

	m = feed(m, snapshotMsg{snap: healthy, time: fixedNow})
	view = m.View()
	if strings.Contains(view, "Alert:") {
		t.Errorf("healthy machine should have no alert banner:\n%s", view)
	}
	if !strings.Contains(view, "Machine Status: Healthy") {
		t.Errorf("expected healthy badge:\n%s", view)
	}
}

func TestFailureKeepsPriorSnapshot(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m = feed(m, snapshotMsg{snap: warning, time: fixedNow}, fetchErrMsg{errDown})

	if m.Phase() != PhaseFailed {
		t.Fatalf("phase: got %v, want failed", m.Phase())
	}
	if m.Snapshot() != warning {
		t.Errorf("expected prior snapshot to be retained, got %+v", m.Snapshot())
	}
	if !strings.Contains(m.View(), "Connection Error") {
		t.Error("expected error view")
	}

	// A second failure still keeps the last good snapshot.
	m = feed(m, fetchErrMsg{errDown})
	if m.Snapshot() != warning {
		t.Errorf("repeated failure lost the prior snapshot: %+v", m.Snapshot())
	}
}

func TestRecoveryClearsError(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m = feed(m, fetchErrMsg{errDown}, snapshotMsg{snap: healthy, time: fixedNow})

	if m.Phase() != PhaseReady {
		t.Fatalf("phase: got %v, want ready", m.Phase())
	}
	if strings.Contains(m.View(), "Connection Error") {
		t.Error("error still shown after a successful fetch")
	}
}

func TestManualRetry(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{err: errDown}, {snap: healthy}}}
	m := newTestModel(t, f)

	m = feed(m, run(m.fetch())...)
	if m.Phase() != PhaseFailed {
		t.Fatalf("phase: got %v, want failed", m.Phase())
	}

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("retry should issue a fetch")
	}
	msgs := run(cmd)
	if hasMsg[tickMsg](msgs) {
		t.Error("retry must not touch the schedule")
	}
	m = feed(m, msgs...)

	if f.Calls() != 2 {
		t.Errorf("fetches: got %d, want 2", f.Calls())
	}
	if m.Phase() != PhaseReady {
		t.Errorf("phase after retry: got %v, want ready", m.Phase())
	}

	// Outside the error view retry does nothing.
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("retry in ready state should not issue a fetch")
	}
}

func TestTickFetchesAndRearms(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{snap: healthy}}}
	m := newTestModel(t, f)

	_, cmd := m.Update(tickMsg(time.Now()))
	msgs := run(cmd)

	if f.Calls() != 1 {
		t.Errorf("fetches after tick: got %d, want 1", f.Calls())
	}
	if !hasMsg[snapshotMsg](msgs) || !hasMsg[tickMsg](msgs) {
		t.Errorf("expected a fetch result and the next tick, got %v", msgs)
	}
}

func TestScheduledRefreshRecoversFromError(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{err: errDown}, {snap: critical}}}
	m := newTestModel(t, f)

	m = feed(m, run(m.fetch())...)
	next, cmd := m.Update(tickMsg(time.Now()))
	m = feed(next.(Model), run(cmd)...)

	if m.Phase() != PhaseReady || m.Status() != status.Critical {
		t.Errorf("got phase %v status %v, want ready/Critical", m.Phase(), m.Status())
	}
}

func TestTeardownStopsPolling(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{snap: healthy}}}
	m := newTestModel(t, f)

	pending := m.sched.next()

	next, cmd := m.Update(key("q"))
	m = next.(Model)
	if msgs := run(cmd); !hasMsg[tea.QuitMsg](msgs) {
		t.Errorf("expected quit, got %v", msgs)
	}
	if m.Phase() != PhaseStopped {
		t.Errorf("phase: got %v, want stopped", m.Phase())
	}

	start := time.Now()
	if msgs := run(pending); len(msgs) != 0 {
		t.Errorf("pending timer fired after teardown: %v", msgs)
	}
	if time.Since(start) >= testInterval {
		t.Error("pending timer was not released on teardown")
	}

	time.Sleep(3 * testInterval)
	if _, cmd := m.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("tick after teardown should not schedule anything")
	}
	if m.fetch() != nil {
		t.Error("no fetch may start after teardown")
	}
	if f.Calls() != 0 {
		t.Errorf("fetches after teardown: got %d, want 0", f.Calls())
	}
}

func TestLateResultDiscardedAfterTeardown(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	next, _ := m.Update(key("ctrl+c"))
	m = feed(next.(Model), snapshotMsg{snap: critical, time: fixedNow}, fetchErrMsg{errDown})

	if m.Snapshot() != nil {
		t.Errorf("late result was applied: %+v", m.Snapshot())
	}
	if _, loading := m.state.(loadingState); !loading {
		t.Errorf("state changed after teardown: %T", m.state)
	}
}

func TestContextCancelTearsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeFetcher{results: []fetchResult{{snap: healthy}}}
	m := New(ctx, f, WithInterval(testInterval))

	cancel()

	if m.Phase() != PhaseStopped {
		t.Errorf("phase: got %v, want stopped", m.Phase())
	}
	if _, cmd := m.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("tick after cancel should not schedule anything")
	}
	if f.Calls() != 0 {
		t.Errorf("fetches after cancel: got %d, want 0", f.Calls())
	}
}

func TestInFlightFetchNotAborted(t *testing.T) {
	release := make(chan struct{})
	f := &blockingFetcher{started: make(chan struct{}, 1), release: release}
	m := newTestModel(t, f)

	cmd := m.fetch()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	<-f.started
	m.teardown()
	close(release)

	msg := <-done
	if _, ok := msg.(snapshotMsg); !ok {
		t.Fatalf("in-flight fetch was aborted: %v", msg)
	}
	m = feed(m, msg)
	if m.Snapshot() != nil {
		t.Error("in-flight result applied after teardown")
	}
}

type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingFetcher) Snapshot(ctx context.Context) (*sensor.Snapshot, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return healthy, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSpinnerOnlyWhileLoading(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	if _, cmd := m.Update(m.spinner.Tick()); cmd == nil {
		t.Error("spinner should keep ticking while loading")
	}

	m = feed(m, snapshotMsg{snap: healthy, time: fixedNow})
	if _, cmd := m.Update(m.spinner.Tick()); cmd != nil {
		t.Error("spinner should stop once data arrived")
	}
}

func TestScrollStopsAtEnd(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})
	m = feed(m, snapshotMsg{snap: critical, time: fixedNow}, tea.WindowSizeMsg{Width: 120, Height: 8})

	limit := m.maxScrollOffset()
	if limit == 0 {
		t.Fatal("content should be taller than the terminal")
	}
	for i := 0; i < limit+20; i++ {
		m = feed(m, key("j"))
	}
	if m.scroll != limit {
		t.Fatalf("scroll after overshoot: got %d, want %d", m.scroll, limit)
	}

	m = feed(m, key("k"))
	if m.scroll != limit-1 {
		t.Errorf("one step up from the end: got %d, want %d", m.scroll, limit-1)
	}

	// Growing the terminal pulls the offset back into range.
	m = feed(m, tea.WindowSizeMsg{Width: 120, Height: 500})
	if m.scroll != 0 {
		t.Errorf("scroll after resize: got %d, want 0", m.scroll)
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{65 * time.Second, "1m05s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := fmtDuration(tt.d); got != tt.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
