package sound

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/sandeepkv93/countdown/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func newTimer(opts model.TimerOptions) (*timer.Timer, *stepClock) {
	clock := &stepClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	return timer.New(opts, clock), clock
}

func TestTriggerPlaysOnceOnExpiry(t *testing.T) {
	opts := model.DefaultTimerOptions()
	opts.LoopSound = true
	tm, clock := newTimer(opts)
	player := newFakePlayer()
	trigger := NewTrigger(player, nil)
	trigger.Bind(tm)

	require.NoError(t, tm.Start(model.NewDurationStart(5*time.Second)))
	assert.Empty(t, player.plays)

	clock.now = clock.now.Add(6 * time.Second)
	tm.Tick(clock.now)
	tm.Tick(clock.now.Add(time.Second))

	require.Len(t, player.plays, 1)
	assert.Equal(t, playCall{sound: "Bell", loop: true}, player.plays[0])
	assert.Equal(t, tm.ID(), trigger.Owner())
}

func TestTriggerStopsOnRestartAndStop(t *testing.T) {
	tm, clock := newTimer(model.DefaultTimerOptions())
	player := newFakePlayer()
	trigger := NewTrigger(player, nil)
	trigger.Bind(tm)

	require.NoError(t, tm.Start(model.TimerStartZero))
	require.True(t, player.IsPlaying())

	clock.now = clock.now.Add(time.Second)
	require.NoError(t, tm.Start(model.NewDurationStart(time.Minute)))
	assert.False(t, player.IsPlaying())
	assert.Equal(t, 1, player.stops)

	tm.Stop()
	assert.Equal(t, 1, player.stops, "stop without playback must not touch the player")
}

func TestTriggerIgnoresOtherTimers(t *testing.T) {
	a, _ := newTimer(model.DefaultTimerOptions())
	b, _ := newTimer(model.DefaultTimerOptions())
	player := newFakePlayer()
	trigger := NewTrigger(player, nil)
	trigger.Bind(a)
	trigger.Bind(b)

	require.NoError(t, a.Start(model.TimerStartZero))
	require.NoError(t, b.Start(model.NewDurationStart(time.Minute)))
	b.Stop()
	assert.True(t, player.IsPlaying())

	assert.True(t, trigger.StopAll())
	assert.False(t, trigger.StopAll())
}

func TestTriggerSkipsSilentTimers(t *testing.T) {
	opts := model.DefaultTimerOptions()
	opts.Sound = nil
	tm, _ := newTimer(opts)
	player := newFakePlayer()
	NewTrigger(player, nil).Bind(tm)

	require.NoError(t, tm.Start(model.TimerStartZero))
	assert.Empty(t, player.plays)
}

func TestTriggerUnbind(t *testing.T) {
	tm, _ := newTimer(model.DefaultTimerOptions())
	player := newFakePlayer()
	unbind := NewTrigger(player, nil).Bind(tm)
	unbind()

	require.NoError(t, tm.Start(model.TimerStartZero))
	assert.Empty(t, player.plays)
	assert.Equal(t, 0, tm.ObserverCount())
}

func TestTriggerPlayErrorIsNotFatal(t *testing.T) {
	tm, _ := newTimer(model.DefaultTimerOptions())
	player := newFakePlayer()
	player.err = errors.New("no audio")
	trigger := NewTrigger(player, nil)
	trigger.Bind(tm)

	require.NoError(t, tm.Start(model.TimerStartZero))
	assert.Equal(t, timer.StateExpired, tm.State())
	assert.Empty(t, trigger.Owner())
}
