package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/countdown/internal/model"
)

var (
	ErrAlreadyElapsed = errors.New("timer: end time has already passed")
	ErrInvalidState   = errors.New("timer: invalid state")
)

type State string

const (
	StateStopped State = "Stopped"
	StateRunning State = "Running"
	StatePaused  State = "Paused"
	StateExpired State = "Expired"
)

func (s State) IsValid() bool {
	switch s {
	case StateStopped, StateRunning, StatePaused, StateExpired:
		return true
	default:
		return false
	}
}

// Active reports whether the timer still has time to run.
func (s State) Active() bool {
	return s == StateRunning || s == StatePaused
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}

// Timer is a countdown state machine. It is not safe for concurrent use; all
// calls are expected on the UI event loop.
type Timer struct {
	id       string
	state    State
	start    time.Time
	end      time.Time
	armed    bool
	pausedAt time.Duration
	last     model.TimerStart
	options  model.TimerOptions
	clock    Clock

	observers []subscription
	nextSubID int
}

type subscription struct {
	id       int
	observer Observer
}

func New(options model.TimerOptions, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{
		id:      uuid.NewString(),
		state:   StateStopped,
		options: options.Clone(),
		clock:   clock,
	}
}

func (t *Timer) ID() string { return t.id }

func (t *Timer) State() State { return t.state }

func (t *Timer) Clock() Clock { return t.clock }

func (t *Timer) ShortID() string {
	if len(t.id) > 8 {
		return t.id[:8]
	}
	return t.id
}

// Options returns the timer's own options; mutations apply immediately.
func (t *Timer) Options() *model.TimerOptions {
	return &t.options
}

// LastStart is the input the timer was most recently started with.
func (t *Timer) LastStart() model.TimerStart {
	return t.last
}

func (t *Timer) StartTime() (time.Time, bool) {
	return t.start, t.armed
}

func (t *Timer) EndTime() (time.Time, bool) {
	return t.end, t.armed
}

func (t *Timer) TotalDuration() time.Duration {
	if !t.armed {
		return 0
	}
	return t.end.Sub(t.start)
}

func (t *Timer) TimeLeft(now time.Time) time.Duration {
	switch t.state {
	case StateRunning:
		left := t.end.Sub(now)
		if left < 0 {
			return 0
		}
		return left
	case StatePaused:
		return t.pausedAt
	default:
		return 0
	}
}

func (t *Timer) TimeElapsed(now time.Time) time.Duration {
	total := t.TotalDuration()
	switch t.state {
	case StateRunning:
		elapsed := now.Sub(t.start)
		if elapsed < 0 {
			return 0
		}
		if elapsed > total {
			return total
		}
		return elapsed
	case StatePaused:
		return total - t.pausedAt
	case StateExpired:
		return total
	default:
		return 0
	}
}

// Percentage is the elapsed share of the total in percent. It is undefined
// when the timer has no positive total duration.
func (t *Timer) Percentage(now time.Time) (float64, bool) {
	total := t.TotalDuration()
	if total <= 0 {
		return 0, false
	}
	return float64(t.TimeElapsed(now)) / float64(total) * 100, true
}

// Start arms the timer from any state. It fails without changing state when
// the requested end time already lies in the past. A zero start keeps the last
// input for a later Restart.
func (t *Timer) Start(ts model.TimerStart) error {
	return t.arm(ts, EventStarted)
}

// Restart re-arms the timer with its last input. Observers see
// EventRestarted, so a sound rung by the expiry keeps playing.
func (t *Timer) Restart() error {
	if t.last.IsZero() {
		return fmt.Errorf("%w: nothing to restart", ErrInvalidState)
	}
	return t.arm(t.last, EventRestarted)
}

func (t *Timer) arm(ts model.TimerStart, kind EventKind) error {
	now := t.clock.Now()
	if d, ok := ts.Duration(); ok && d < 0 {
		return &model.ValidationError{Input: ts.String(), Err: model.ErrNonPositiveDuration}
	}
	end := ts.EndTime(now)
	if end.Before(now) {
		return &model.ValidationError{Input: ts.String(), Err: ErrAlreadyElapsed}
	}

	t.state = StateRunning
	t.start = now
	t.end = end
	t.armed = true
	t.pausedAt = 0
	if !ts.IsZero() {
		t.last = ts
	}
	t.emit(kind, now)

	if !end.After(now) {
		t.Tick(now)
	}
	return nil
}

// Pause is a no-op unless the timer is running.
func (t *Timer) Pause() bool {
	if t.state != StateRunning {
		return false
	}
	now := t.clock.Now()
	if !now.Before(t.end) {
		t.Tick(now)
		return false
	}
	t.pausedAt = t.end.Sub(now)
	t.state = StatePaused
	t.emit(EventPaused, now)
	return true
}

// Resume is a no-op unless the timer is paused.
func (t *Timer) Resume() bool {
	if t.state != StatePaused {
		return false
	}
	now := t.clock.Now()
	total := t.TotalDuration()
	t.end = now.Add(t.pausedAt)
	t.start = t.end.Add(-total)
	t.pausedAt = 0
	t.state = StateRunning
	t.emit(EventResumed, now)
	return true
}

// Stop always succeeds. Stopping an already stopped timer emits nothing.
func (t *Timer) Stop() {
	if t.state == StateStopped && !t.armed {
		return
	}
	t.state = StateStopped
	t.start = time.Time{}
	t.end = time.Time{}
	t.armed = false
	t.pausedAt = 0
	t.emit(EventStopped, t.clock.Now())
}

// Tick advances a running timer to now, expiring it once the end time is
// reached.
func (t *Timer) Tick(now time.Time) {
	if t.state != StateRunning {
		return
	}
	if !now.Before(t.end) {
		t.state = StateExpired
		t.emit(EventExpired, now)
		return
	}
	t.emit(EventTick, now)
}

func (t *Timer) String() string {
	return fmt.Sprintf("timer %s (%s)", t.ShortID(), t.state)
}
