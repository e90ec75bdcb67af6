package monitor

import (
	"time"

	"github.com/luki/machinewise/internal/sensor"
)

// Phase names the poller state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// pollState is one of loadingState, readyState or failedState. Each
// variant carries only the data valid in that state.
type pollState interface {
	phase() Phase
	snapshot() *sensor.Snapshot
}

// loadingState: no fetch has completed yet.
type loadingState struct{}

func (loadingState) phase() Phase               { return PhaseLoading }
func (loadingState) snapshot() *sensor.Snapshot { return nil }

type readyState struct {
	snap    *sensor.Snapshot
	updated time.Time
}

func (readyState) phase() Phase                 { return PhaseReady }
func (s readyState) snapshot() *sensor.Snapshot { return s.snap }

// failedState keeps the last good snapshot, which may be stale or nil.
type failedState struct {
	message string
	err     error
	prior   *sensor.Snapshot
}

func (failedState) phase() Phase                 { return PhaseFailed }
func (s failedState) snapshot() *sensor.Snapshot { return s.prior }
