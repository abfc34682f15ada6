package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

type Notification struct {
	Title string
	Body  string
	At    time.Time
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type Noop struct{}

func (Noop) Send(context.Context, Notification) error { return nil }

// Exec shows notifications with notify-send on Linux and osascript on macOS.
// Other platforms are silently ignored.
type Exec struct {
	// Run defaults to exec.CommandContext(...).Run.
	Run func(ctx context.Context, name string, args ...string) error
}

func (e Exec) Send(ctx context.Context, n Notification) error {
	name, args := commandFor(runtime.GOOS, n)
	if name == "" {
		return nil
	}
	run := e.Run
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		}
	}
	if err := run(ctx, name, args...); err != nil {
		return fmt.Errorf("notify: %s: %w", name, err)
	}
	return nil
}

func commandFor(goos string, n Notification) (string, []string) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{"--app-name=countdown", n.Title, n.Body}
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return "osascript", []string{"-e", script}
	default:
		return "", nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Recorder keeps every notification it is sent.
type Recorder struct {
	Sent []Notification
}

func (r *Recorder) Send(_ context.Context, n Notification) error {
	r.Sent = append(r.Sent, n)
	return nil
}
