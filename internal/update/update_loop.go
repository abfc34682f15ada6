package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/control"
	"github.com/sandeepkv93/countdown/internal/timer"
	"github.com/sandeepkv93/countdown/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Scheduler != nil {
		cmds = append(cmds, waitForSchedulerCmd(m.Scheduler.C()))
	}
	if m.App != nil && m.App.Player != nil {
		cmds = append(cmds, waitForPlaybackCmd(m.App.Player.Events()))
	}
	if m.FullScreen {
		cmds = append(cmds, tea.EnterAltScreen)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.Status
	updated, cmd := m.dispatch(msg)
	next, cmd := updated.(Model).handleExpiries(before, cmd)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.syncBubbleData()
		return m, nil
	case SchedulerEventMsg:
		return m.onSchedulerEvent(typed)
	case PlaybackMsg:
		return m.onPlayback(typed)
	case PersistedMsg:
		return m.onPersisted(typed)
	case control.CommandRequest:
		return m.onControlCommand(typed)
	case control.ListRequest:
		return m.onControlList(typed)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == m.Keys.Quit {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.AboutVisible {
		return m.handleAboutKey(msg)
	}
	if m.Menu.Active {
		return m.handleMenuKey(msg)
	}

	w := m.activeWindow()
	if w == nil {
		m.Quitting = true
		return m, tea.Quit
	}
	if w.ConfirmClose {
		return m.handleConfirmKey(msg, w)
	}

	switch keyStr {
	case m.Keys.NextTab:
		m.switchTab(1)
		return m, nil
	case m.Keys.PrevTab:
		m.switchTab(-1)
		return m, nil
	case "ctrl+w":
		return m.closeActive(w)
	}

	if w.Mode == ModeInput {
		return m.handleInputKey(msg, w)
	}
	return m.handleStatusKey(msg, w)
}

func (m Model) handleInputKey(msg tea.KeyMsg, w *Window) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		res, err := m.submitInput(w)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: res}
		return m, m.persistCmd()
	case "esc":
		if !m.cancelOrReset(w) && m.FullScreen {
			return m, m.toggleFullScreen()
		}
		return m, nil
	case "up":
		m.recentInput(w, 1)
		return m, nil
	case "down":
		m.recentInput(w, -1)
		return m, nil
	case "/":
		if w.Input.Value() == "" {
			m.openPalette()
			return m, nil
		}
	case m.Keys.Help:
		if w.Input.Value() == "" {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
	}
	if w.Err != "" && msg.Type != tea.KeyEnter {
		w.Err = ""
	}
	var cmd tea.Cmd
	w.Input, cmd = w.Input.Update(msg)
	return m, cmd
}

func (m Model) handleStatusKey(msg tea.KeyMsg, w *Window) (tea.Model, tea.Cmd) {
	var (
		res       string
		err       error
		timerOnly bool
	)
	switch msg.String() {
	case " ", "p":
		res, err = m.toggle(w)
		timerOnly = true
	case "s":
		res, err = m.stop(w)
		timerOnly = true
	case "r":
		res, err = m.reset(w)
		timerOnly = true
	case "e":
		if w.Timer.Options().LockInterface {
			err = errLocked("editing")
			break
		}
		w.Mode = ModeInput
		if last := w.Timer.LastStart(); !last.IsZero() {
			w.Input.SetValue(last.String())
			w.Input.CursorEnd()
		}
		return m, nil
	case "n":
		res, err = m.newWindow("")
	case "c":
		if w.Timer.Options().LockInterface {
			err = errLocked("sound")
			break
		}
		next := m.App.Catalog.Next(w.Timer.Options().Sound)
		w.Timer.Options().Sound = next
		res = "sound: " + next.DisplayName()
	case m.Keys.Menu:
		m.openMenu()
		return m, nil
	case m.Keys.FullScreen:
		return m, m.toggleFullScreen()
	case "a":
		m.AboutVisible = true
		return m, nil
	case "/":
		m.openPalette()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "q":
		return m.closeActive(w)
	case "esc":
		if !m.cancelOrReset(w) && m.FullScreen {
			return m, m.toggleFullScreen()
		}
		return m, nil
	default:
		return m, nil
	}
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res}
	if timerOnly {
		return m, m.persistTimerCmd(w.Timer)
	}
	return m, m.persistCmd()
}

func (m Model) handleConfirmKey(msg tea.KeyMsg, w *Window) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		res, err := m.requestClose(w, true)
		if err != nil {
			w.ConfirmClose = false
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: res}
		if m.Quitting {
			return m, tea.Sequence(m.persistCmd(), tea.Quit)
		}
		return m, m.persistCmd()
	default:
		w.ConfirmClose = false
		m.Status = StatusBar{Text: "close cancelled"}
		return m, nil
	}
}

func (m Model) handleAboutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "a":
		m.AboutVisible = false
		return m, nil
	}
	var cmd tea.Cmd
	m.aboutView, cmd = m.aboutView.Update(msg)
	return m, cmd
}

func (m Model) closeActive(w *Window) (tea.Model, tea.Cmd) {
	res, err := m.requestClose(w, false)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res}
	if m.Quitting {
		return m, tea.Sequence(m.persistCmd(), tea.Quit)
	}
	return m, m.persistCmd()
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	w := m.activeWindow()
	if w == nil {
		return ""
	}
	now := m.App.Clock.Now()

	if m.FullScreen && !m.Menu.Active && !m.Palette.Active && !m.AboutVisible {
		return views.RenderFullScreen(views.FullScreenData{
			Title:  w.Timer.Options().Title,
			Time:   m.displayTime(w, now),
			State:  string(w.Timer.State()),
			Width:  m.width,
			Height: m.height,
		})
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderMenuIfVisible(),
		m.renderAboutIfVisible(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
		m.renderDetached(now),
	}, "\n\n"))

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("countdown | window %d/%d | timers: %d", m.Active+1, len(m.Windows), m.App.Registry.Len()),
		Tabs:         m.renderTabs(),
		LeftPane:     m.renderTimerPanel(w, now),
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer:       fmt.Sprintf("keys: %s menu | %s full screen | %s/%s windows | / cmd | %s help | %s quit", m.Keys.Menu, m.Keys.FullScreen, m.Keys.NextTab, m.Keys.PrevTab, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderTimerPanel(w *Window, now time.Time) string {
	t := w.Timer
	opts := t.Options()
	data := views.TimerPanelData{
		Title:        opts.Title,
		ShortID:      t.ShortID(),
		InputMode:    w.Mode == ModeInput,
		InputView:    w.Input.View(),
		ErrorText:    w.Err,
		State:        string(t.State()),
		Time:         m.displayTime(w, now),
		Elapsed:      timer.FormatDuration(t.TimeElapsed(now)),
		ShowElapsed:  opts.ShowTimeElapsed,
		ShowProgress: opts.ShowProgressInTaskbar,
		Sound:        opts.Sound.DisplayName(),
		Flags:        m.flags(w),
		ConfirmClose: w.ConfirmClose,
	}
	if end, ok := t.EndTime(); ok && t.State() != timer.StatePaused {
		data.EndTime = end.Format("15:04:05")
	}
	if pct, ok := t.Percentage(now); ok {
		data.ProgressView = m.progressFor(t.State()).ViewAs(pct / 100)
	}
	return views.RenderTimerPanel(data)
}

// displayTime shows time left, or time elapsed when the option is set.
func (m Model) displayTime(w *Window, now time.Time) string {
	t := w.Timer
	if t.State() == timer.StateExpired {
		return "0:00"
	}
	if t.Options().ShowTimeElapsed && t.State().Active() {
		return timer.FormatDuration(t.TimeElapsed(now))
	}
	return timer.FormatDuration(t.TimeLeft(now))
}

func (m Model) renderTabs() string {
	tabs := make([]views.TabData, 0, len(m.Windows))
	for i, w := range m.Windows {
		tabs = append(tabs, views.TabData{
			Label:  timerLabel(w.Timer),
			State:  string(w.Timer.State()),
			Active: i == m.Active,
		})
	}
	return views.RenderTabs(tabs)
}

func (m Model) renderDetached(now time.Time) string {
	var items []views.DetachedTimerData
	for _, t := range m.detached() {
		items = append(items, views.DetachedTimerData{
			ShortID: t.ShortID(),
			Title:   t.Options().Title,
			State:   string(t.State()),
			Time:    timer.FormatDuration(t.TimeLeft(now)),
		})
	}
	return views.RenderDetached(items)
}

func (m Model) renderAboutIfVisible() string {
	if !m.AboutVisible {
		return ""
	}
	return m.aboutView.View()
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(last.Level, last.Title+": "+last.Body)
}

// StartInput starts a timer given on the command line, in the active window
// when it is still prompting and in a new window otherwise.
func (m *Model) StartInput(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	w := m.activeWindow()
	if w == nil || w.Mode != ModeInput || w.Timer.State() != timer.StateStopped {
		_, err := m.newWindow(input)
		return err
	}
	_, err := m.startTimer(w, input, true)
	return err
}
