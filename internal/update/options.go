package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/commands"
)

func (m Model) optionValue(w *Window, opt commands.Option) bool {
	o := w.Timer.Options()
	switch opt {
	case commands.OptionAlwaysOnTop:
		return o.AlwaysOnTop
	case commands.OptionPromptOnExit:
		return o.PromptOnExit
	case commands.OptionShowProgress:
		return o.ShowProgressInTaskbar
	case commands.OptionShowInNotificationArea:
		return m.App.Settings.ShowInNotificationArea
	case commands.OptionShowTimeElapsed:
		return o.ShowTimeElapsed
	case commands.OptionLoopTimer:
		return o.LoopTimer
	case commands.OptionLoopSound:
		return o.LoopSound
	case commands.OptionLockInterface:
		return o.LockInterface
	default:
		return false
	}
}

// setOption writes an option of the window's timer, or the app-wide setting
// for the notification area. A nil value toggles.
func (m *Model) setOption(w *Window, opt commands.Option, value *bool) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("changing options")
	}
	next := !m.optionValue(w, opt)
	if value != nil {
		next = *value
	}
	o := w.Timer.Options()
	switch opt {
	case commands.OptionAlwaysOnTop:
		o.AlwaysOnTop = next
	case commands.OptionPromptOnExit:
		o.PromptOnExit = next
	case commands.OptionShowProgress:
		o.ShowProgressInTaskbar = next
	case commands.OptionShowInNotificationArea:
		m.App.Settings.ShowInNotificationArea = next
	case commands.OptionShowTimeElapsed:
		o.ShowTimeElapsed = next
	case commands.OptionLoopTimer:
		o.LoopTimer = next
	case commands.OptionLoopSound:
		o.LoopSound = next
	case commands.OptionLockInterface:
		o.LockInterface = next
	default:
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option %q", opt)}
	}
	return fmt.Sprintf("%s %s", opt, onOff(next)), nil
}

func (m *Model) setTitle(w *Window, text string) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("title")
	}
	w.Timer.Options().Title = strings.TrimSpace(text)
	if w.Timer.Options().Title == "" {
		return "title cleared", nil
	}
	return "title: " + w.Timer.Options().Title, nil
}

func (m *Model) setSound(w *Window, name string) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("sound")
	}
	s, ok := m.App.Catalog.Find(name)
	if !ok {
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sound %q", name)}
	}
	w.Timer.Options().Sound = s
	return "sound: " + s.DisplayName(), nil
}

func (m *Model) toggleFullScreen() tea.Cmd {
	m.FullScreen = !m.FullScreen
	if m.FullScreen {
		return tea.EnterAltScreen
	}
	return tea.ExitAltScreen
}

// flags lists the enabled options shown under the timer.
func (m Model) flags(w *Window) []string {
	var out []string
	for _, opt := range commands.Options() {
		if opt == commands.OptionPromptOnExit || opt == commands.OptionShowProgress || opt == commands.OptionShowTimeElapsed {
			continue
		}
		if m.optionValue(w, opt) {
			out = append(out, strings.ReplaceAll(string(opt), "-", " "))
		}
	}
	return out
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
