package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/timer"
)

const persistTimeout = 10 * time.Second

// persistCmd snapshots the state on the UI goroutine and writes it from a
// command goroutine.
func (m *Model) persistCmd() tea.Cmd {
	if m.App == nil {
		return nil
	}
	a := m.App
	state := a.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return PersistedMsg{Err: a.Save(ctx, state)}
	}
}

// persistTimerCmd writes one timer's row. A timer saved for the first time
// goes after the other resumable timers.
func (m *Model) persistTimerCmd(t *timer.Timer) tea.Cmd {
	if m.App == nil || t == nil {
		return nil
	}
	a := m.App
	snap := t.Snapshot()
	resumable := a.Registry.Resumable()
	pos := len(resumable)
	for i, r := range resumable {
		if r == t {
			pos = i
			break
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return PersistedMsg{Err: a.SaveTimer(ctx, snap, pos)}
	}
}

func (m Model) onPersisted(msg PersistedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.App.Logger.Error("persist state", "error", msg.Err)
		m.Status = StatusBar{Text: "could not save state: " + msg.Err.Error(), IsError: true}
	}
	return m, nil
}
