package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// schedule is the repeating poll timer. It is armed one tick at a time and
// released by stop, after which pending timers return immediately and no
// further ticks are produced.
type schedule struct {
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func newSchedule(parent context.Context, interval time.Duration) *schedule {
	ctx, cancel := context.WithCancel(parent)
	return &schedule{interval: interval, ctx: ctx, cancel: cancel}
}

// next arms the timer for one tick.
func (s *schedule) next() tea.Cmd {
	if s.stopped() {
		return nil
	}
	ctx, d := s.ctx, s.interval
	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			return tickMsg(now)
		}
	}
}

func (s *schedule) stop() {
	s.cancel()
}

func (s *schedule) stopped() bool {
	return s.ctx.Err() != nil
}

// fetchContext is not canceled by stop: a request already on the wire is
// allowed to finish and its result is dropped by Update.
func (s *schedule) fetchContext() context.Context {
	return context.WithoutCancel(s.ctx)
}
