package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
}

type recorder struct {
	events []Event
}

func (r *recorder) OnTimerEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func seconds(n int) model.TimerStart {
	return model.NewDurationStart(time.Duration(n) * time.Second)
}

func TestNewTimerIsStopped(t *testing.T) {
	tm := New(model.DefaultTimerOptions(), newFakeClock())
	assert.Equal(t, StateStopped, tm.State())
	assert.NotEmpty(t, tm.ID())
	_, armed := tm.EndTime()
	assert.False(t, armed)
}

func TestStartThenTickBeforeEndKeepsRunning(t *testing.T) {
	for _, secs := range []int{1, 10, 59, 300, 3600} {
		clock := newFakeClock()
		tm := New(model.DefaultTimerOptions(), clock)
		require.NoError(t, tm.Start(seconds(secs)))

		tm.Tick(clock.Now())
		assert.Equal(t, StateRunning, tm.State())
		assert.Equal(t, time.Duration(secs)*time.Second, tm.TimeLeft(clock.Now()))
	}
}

func TestCountdownScenario(t *testing.T) {
	clock := newFakeClock()
	t0 := clock.Now()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)

	require.NoError(t, tm.Start(seconds(300)))

	tm.Tick(t0.Add(299 * time.Second))
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, time.Second, tm.TimeLeft(t0.Add(299*time.Second)))

	tm.Tick(t0.Add(301 * time.Second))
	assert.Equal(t, StateExpired, tm.State())
	assert.Equal(t, time.Duration(0), tm.TimeLeft(t0.Add(301*time.Second)))
	assert.Equal(t, []EventKind{EventStarted, EventTick, EventExpired}, rec.kinds())
}

func TestStartInPastFailsWithoutTransition(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)

	err := tm.Start(model.NewUntilStart(clock.Now().Add(-10 * time.Second)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyElapsed))
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, StateStopped, tm.State())
	assert.Empty(t, rec.events)

	require.NoError(t, tm.Start(seconds(60)))
	clock.Advance(10 * time.Second)
	err = tm.Start(model.NewUntilStart(clock.Now().Add(-time.Second)))
	require.Error(t, err)
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, 50*time.Second, tm.TimeLeft(clock.Now()))
}

func TestZeroStartExpiresImmediately(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)

	require.NoError(t, tm.Start(model.TimerStartZero))
	assert.Equal(t, StateExpired, tm.State())
	assert.Equal(t, []EventKind{EventStarted, EventExpired}, rec.kinds())
	_, ok := tm.Percentage(clock.Now())
	assert.False(t, ok)
}

func TestZeroStartKeepsLastInput(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	require.NoError(t, tm.Start(seconds(90)))
	tm.Stop()

	require.NoError(t, tm.Start(model.TimerStartZero))
	assert.Equal(t, StateExpired, tm.State())
	assert.True(t, tm.LastStart().Equal(seconds(90)))
}

func TestPauseResumePreservesTimeLeft(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	require.NoError(t, tm.Start(seconds(120)))

	clock.Advance(45 * time.Second)
	require.True(t, tm.Pause())
	atPause := tm.TimeLeft(clock.Now())
	assert.Equal(t, 75*time.Second, atPause)

	clock.Advance(10 * time.Minute)
	assert.Equal(t, atPause, tm.TimeLeft(clock.Now()))
	assert.Equal(t, 45*time.Second, tm.TimeElapsed(clock.Now()))

	require.True(t, tm.Resume())
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, atPause, tm.TimeLeft(clock.Now()))
	assert.Equal(t, 120*time.Second, tm.TotalDuration())

	tm.Tick(clock.Advance(75 * time.Second))
	assert.Equal(t, StateExpired, tm.State())
}

func TestPauseAndResumeAreNoOpsInWrongState(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)

	assert.False(t, tm.Pause())
	assert.False(t, tm.Resume())

	require.NoError(t, tm.Start(seconds(30)))
	assert.False(t, tm.Resume())
	require.True(t, tm.Pause())
	assert.False(t, tm.Pause())
	assert.Equal(t, []EventKind{EventStarted, EventPaused}, rec.kinds())
}

func TestPauseAfterDeadlineExpiresInstead(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	require.NoError(t, tm.Start(seconds(5)))
	clock.Advance(6 * time.Second)

	assert.False(t, tm.Pause())
	assert.Equal(t, StateExpired, tm.State())
	assert.False(t, tm.Resume())
	assert.Equal(t, StateExpired, tm.State())
}

func TestStopIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)
	require.NoError(t, tm.Start(seconds(30)))

	tm.Stop()
	tm.Stop()
	assert.Equal(t, StateStopped, tm.State())
	_, armed := tm.StartTime()
	assert.False(t, armed)
	_, armed = tm.EndTime()
	assert.False(t, armed)
	assert.Equal(t, 1, rec.count(EventStopped))
}

func TestExpiredFiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)
	require.NoError(t, tm.Start(seconds(3)))

	for i := 0; i < 10; i++ {
		tm.Tick(clock.Advance(time.Second))
	}
	assert.Equal(t, 1, rec.count(EventExpired))
	assert.Equal(t, StateExpired, tm.State())
}

func TestExpiredOnlyExitsViaStopOrStart(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	require.NoError(t, tm.Start(seconds(1)))
	tm.Tick(clock.Advance(2 * time.Second))
	require.Equal(t, StateExpired, tm.State())

	require.NoError(t, tm.Start(seconds(10)))
	assert.Equal(t, StateRunning, tm.State())

	tm.Tick(clock.Advance(11 * time.Second))
	tm.Stop()
	assert.Equal(t, StateStopped, tm.State())
}

func TestPercentage(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)

	_, ok := tm.Percentage(clock.Now())
	assert.False(t, ok)

	require.NoError(t, tm.Start(seconds(200)))
	pct, ok := tm.Percentage(clock.Advance(50 * time.Second))
	require.True(t, ok)
	assert.InDelta(t, 25.0, pct, 1e-9)
}

func TestTickEventCarriesRecomputedTimes(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)
	require.NoError(t, tm.Start(seconds(60)))

	tm.Tick(clock.Advance(20 * time.Second))
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventTick, last.Kind)
	assert.Equal(t, 40*time.Second, last.TimeLeft)
	assert.Equal(t, 20*time.Second, last.TimeElapsed)
	assert.Equal(t, tm.ID(), last.TimerID)
}

func TestObserversInRegistrationOrderAndUnsubscribe(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)

	var order []string
	unsubA := tm.Subscribe(ObserverFunc(func(Event) { order = append(order, "a") }))
	tm.Subscribe(ObserverFunc(func(Event) { order = append(order, "b") }))
	tm.Subscribe(ObserverFunc(func(Event) { order = append(order, "c") }))

	require.NoError(t, tm.Start(seconds(10)))
	assert.Equal(t, []string{"a", "b", "c"}, order)

	unsubA()
	unsubA()
	order = nil
	tm.Stop()
	assert.Equal(t, []string{"b", "c"}, order)
	assert.Equal(t, 2, tm.ObserverCount())
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	tm := New(model.DefaultTimerOptions(), newFakeClock())
	calls := 0
	var unsub func()
	unsub = tm.Subscribe(ObserverFunc(func(Event) {
		calls++
		unsub()
	}))

	require.NoError(t, tm.Start(seconds(10)))
	tm.Stop()
	assert.Equal(t, 1, calls)
}

func TestOptionsAreOwnedByTimer(t *testing.T) {
	opts := model.DefaultTimerOptions()
	tm := New(opts, newFakeClock())
	tm.Options().LoopSound = true
	tm.Options().Sound.Name = "Chime"

	assert.False(t, opts.LoopSound)
	assert.Equal(t, "Bell", opts.Sound.Name)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:01", FormatDuration(200*time.Millisecond))
	assert.Equal(t, "5:00", FormatDuration(5*time.Minute))
	assert.Equal(t, "1:02:03", FormatDuration(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0:00", FormatDuration(-time.Second))
}

func TestRestartUsesLastInput(t *testing.T) {
	clock := newFakeClock()
	tm := New(model.DefaultTimerOptions(), clock)
	rec := &recorder{}
	tm.Subscribe(rec)

	assert.ErrorIs(t, tm.Restart(), ErrInvalidState)

	require.NoError(t, tm.Start(seconds(30)))
	tm.Tick(clock.Advance(30 * time.Second))
	require.Equal(t, StateExpired, tm.State())

	require.NoError(t, tm.Restart())
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, 30*time.Second, tm.TimeLeft(clock.now))
	assert.Equal(t, []EventKind{EventStarted, EventExpired, EventRestarted}, rec.kinds())
}
