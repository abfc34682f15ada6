package update

import (
	"github.com/charmbracelet/bubbles/progress"

	"github.com/sandeepkv93/countdown/internal/commands"
	"github.com/sandeepkv93/countdown/internal/timer"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func errLocked(action string) error {
	return commands.LockedError(action)
}

func (m Model) progressFor(s timer.State) progress.Model {
	switch s {
	case timer.StatePaused:
		return m.progressPaused
	case timer.StateExpired:
		return m.progressExpired
	default:
		return m.progressRunning
	}
}

func (m *Model) setResult(msg string, err error) {
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: msg}
}
