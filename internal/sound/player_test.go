package sound

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/countdown/internal/logging"
	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitPlayback(t *testing.T, p Player, kind PlaybackKind) PlaybackEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-p.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
			return PlaybackEvent{}
		}
	}
}

func TestExecPlayerRunsCommandWithFile(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string
	runner := func(_ context.Context, name string, args ...string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	p := NewExecPlayer("paplay --volume 65536", WithRunner(runner), WithLogger(logging.Discard()))

	require.NoError(t, p.Play(&model.Sound{Name: "chime", Path: "/sounds/chime.wav"}, false))
	waitPlayback(t, p, PlaybackCompleted)
	assert.False(t, p.IsPlaying())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"paplay", "--volume", "65536", "/sounds/chime.wav"}, calls[0])
}

func TestExecPlayerLoopsUntilStopped(t *testing.T) {
	var mu sync.Mutex
	count := 0
	runner := func(ctx context.Context, _ string, _ ...string) error {
		mu.Lock()
		count++
		mu.Unlock()
		select {
		case <-time.After(5 * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p := NewExecPlayer("play", WithRunner(runner), WithLogger(logging.Discard()))

	require.NoError(t, p.Play(&model.Sound{Name: "chime", Path: "chime.wav"}, true))
	waitPlayback(t, p, PlaybackStarted)
	time.Sleep(40 * time.Millisecond)
	assert.True(t, p.IsPlaying())

	p.Stop()
	waitPlayback(t, p, PlaybackStopped)
	assert.False(t, p.IsPlaying())

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, count, 1)
}

func TestExecPlayerRingsBell(t *testing.T) {
	bell := &syncBuffer{}
	p := NewExecPlayer("", WithBell(bell), WithLogger(logging.Discard()))

	bellSound := model.BellSound
	require.NoError(t, p.Play(&bellSound, true))
	assert.Eventually(t, func() bool { return bell.String() == "\a" }, time.Second, 5*time.Millisecond)
	p.Stop()
	assert.False(t, p.IsPlaying())
}

func TestExecPlayerReportsFailures(t *testing.T) {
	runner := func(context.Context, string, ...string) error { return errors.New("device busy") }
	p := NewExecPlayer("play", WithRunner(runner), WithLogger(logging.Discard()))

	require.NoError(t, p.Play(&model.Sound{Name: "chime", Path: "chime.wav"}, true))
	ev := waitPlayback(t, p, PlaybackCompleted)
	assert.EqualError(t, ev.Err, "device busy")
}

func TestExecPlayerRejectsUnplayableSounds(t *testing.T) {
	p := &ExecPlayer{run: execRunner, events: make(chan PlaybackEvent, 4), logger: logging.Discard()}
	assert.ErrorIs(t, p.Play(&model.Sound{Name: "chime", Path: "chime.wav"}, false), ErrNoPlayerCommand)
	assert.Error(t, p.Play(&model.Sound{Name: "ghost"}, false))
	assert.NoError(t, p.Play(nil, false))
	assert.False(t, p.IsPlaying())
}
