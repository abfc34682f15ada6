package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/countdown/internal/model"
)

// Snapshot is the persisted form of a timer.
type Snapshot struct {
	ID         string
	State      State
	StartTime  *time.Time
	EndTime    *time.Time
	PausedLeft time.Duration
	Input      string
	Options    model.TimerOptions
}

func (t *Timer) Snapshot() Snapshot {
	out := Snapshot{
		ID:         t.id,
		State:      t.state,
		PausedLeft: t.pausedAt,
		Input:      t.last.String(),
		Options:    t.options.Clone(),
	}
	if t.armed {
		start, end := t.start, t.end
		out.StartTime = &start
		out.EndTime = &end
	}
	return out
}

// Restore rebuilds a timer with its original timestamps, so a running timer
// keeps counting against wall-clock time that passed while it was persisted.
func Restore(s Snapshot, clock Clock) (*Timer, error) {
	if !s.State.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, s.State)
	}
	if strings.TrimSpace(s.ID) == "" {
		return nil, fmt.Errorf("timer: snapshot id is required")
	}
	t := New(s.Options, clock)
	t.id = s.ID
	t.state = s.State
	if s.Input != "" {
		var ts model.TimerStart
		if err := ts.UnmarshalText([]byte(s.Input)); err == nil {
			t.last = ts
		}
	}
	if s.State == StateStopped {
		return t, nil
	}
	if s.StartTime == nil || s.EndTime == nil {
		return nil, fmt.Errorf("timer: %s snapshot %s has no start/end time", s.State, s.ID)
	}
	t.start = *s.StartTime
	t.end = *s.EndTime
	t.armed = true
	if s.State == StatePaused {
		t.pausedAt = s.PausedLeft
	}
	return t, nil
}
