package notify

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandForPlatforms(t *testing.T) {
	n := Notification{Title: `Tea "time"`, Body: "Timer expired"}

	name, args := commandFor("linux", n)
	assert.Equal(t, "notify-send", name)
	assert.Equal(t, []string{"--app-name=countdown", `Tea "time"`, "Timer expired"}, args)

	name, args = commandFor("darwin", n)
	assert.Equal(t, "osascript", name)
	require.Len(t, args, 2)
	assert.Equal(t, `display notification "Timer expired" with title "Tea \"time\""`, args[1])

	name, _ = commandFor("plan9", n)
	assert.Empty(t, name)
}

func TestExecWrapsRunnerError(t *testing.T) {
	e := Exec{Run: func(context.Context, string, ...string) error { return errors.New("boom") }}
	err := e.Send(context.Background(), Notification{Title: "t"})
	if name, _ := commandFor(runtime.GOOS, Notification{}); name == "" {
		assert.NoError(t, err)
		return
	}
	assert.ErrorContains(t, err, "boom")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), Notification{Title: "a"}))
	require.NoError(t, Noop{}.Send(context.Background(), Notification{}))
	assert.Len(t, r.Sent, 1)
}
