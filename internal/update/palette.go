package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/commands"
	"github.com/sandeepkv93/countdown/internal/views"
)

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active", IsError: false}
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	res, cmd, err := m.runCommand(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}
	return m, cmd
}

// runCommand parses and executes one command line against the active
// window. Successful commands persist the new state.
func (m *Model) runCommand(raw string) (commands.Result, tea.Cmd, error) {
	parsed, err := commands.Parse(raw)
	if err != nil {
		return commands.Result{}, nil, err
	}
	w := m.activeWindow()
	if w == nil {
		return commands.Result{}, nil, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no window is open"}
	}

	var cmds []tea.Cmd
	res, err := commands.Execute(parsed, m.handlers(w, &cmds))
	if err != nil {
		m.App.Logger.Debug("command rejected", "command", raw, "error", err)
		return res, tea.Batch(cmds...), err
	}
	cmds = append(cmds, m.persistCmd())
	if m.Quitting {
		cmds = append(cmds, tea.Quit)
	}
	return res, tea.Batch(cmds...), nil
}

func (m *Model) handlers(w *Window, cmds *[]tea.Cmd) commands.Handlers {
	result := func(msg string, err error) (commands.Result, error) {
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: msg}, nil
	}
	return commands.Handlers{
		Start: func(a commands.StartArgs) (commands.Result, error) {
			w.Input.SetValue(a.Input)
			return result(m.submitInput(w))
		},
		Pause:  func() (commands.Result, error) { return result(m.pause(w)) },
		Resume: func() (commands.Result, error) { return result(m.resume(w)) },
		Toggle: func() (commands.Result, error) { return result(m.toggle(w)) },
		Stop:   func() (commands.Result, error) { return result(m.stop(w)) },
		Reset:  func() (commands.Result, error) { return result(m.reset(w)) },
		Close: func() (commands.Result, error) {
			return result(m.requestClose(w, false))
		},
		FullScreen: func() (commands.Result, error) {
			*cmds = append(*cmds, m.toggleFullScreen())
			return commands.Result{Message: "full screen " + onOff(m.FullScreen)}, nil
		},
		New: func(a commands.NewArgs) (commands.Result, error) {
			return result(m.newWindow(a.Input))
		},
		Title: func(a commands.TitleArgs) (commands.Result, error) {
			return result(m.setTitle(w, a.Text))
		},
		Sound: func(a commands.SoundArgs) (commands.Result, error) {
			return result(m.setSound(w, a.Name))
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			return result(m.setOption(w, a.Option, a.Value))
		},
		Attach: func(a commands.AttachArgs) (commands.Result, error) {
			return result(m.attach(a.TimerID))
		},
		About: func() (commands.Result, error) {
			m.AboutVisible = true
			return commands.Result{Message: "about"}, nil
		},
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
}
