package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/countdown/internal/app"
	"github.com/sandeepkv93/countdown/internal/scheduler"
	"github.com/sandeepkv93/countdown/internal/sound"
	"github.com/sandeepkv93/countdown/internal/timer"
)

type WindowMode string

const (
	ModeInput  WindowMode = "input"
	ModeStatus WindowMode = "status"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Menu       string
	FullScreen string
	NextTab    string
	PrevTab    string
	Help       string
	Quit       string
}

// Window is one tab of the UI. It shows exactly one timer.
type Window struct {
	ID           int
	Timer        *timer.Timer
	Mode         WindowMode
	Input        textinput.Model
	Err          string
	ConfirmClose bool
	recent       int
}

type Model struct {
	App           *app.App
	Scheduler     *scheduler.Engine
	Windows       []*Window
	Active        int
	Menu          MenuState
	Palette       CommandPaletteState
	HelpVisible   bool
	AboutVisible  bool
	FullScreen    bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	nextWindowID int
	deadlines    map[string]func()
	expired      *expiryQueue
	width        int
	height       int
	// Bubble components used for rich TUI controls
	commandInput    textinput.Model
	progressRunning progress.Model
	progressPaused  progress.Model
	progressExpired progress.Model
	helpModel       help.Model
	aboutView       viewport.Model
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

type PlaybackMsg struct {
	Event sound.PlaybackEvent
}

type PersistedMsg struct {
	Err error
}

// NewModel opens one window per restored timer, or a single input window
// when there are none.
func NewModel(a *app.App, engine *scheduler.Engine, restored []*timer.Timer) Model {
	m := Model{
		App:       a,
		Scheduler: engine,
		deadlines: make(map[string]func()),
		expired:   &expiryQueue{},
		Keys: GlobalKeyMap{
			Menu:       "m",
			FullScreen: "f",
			NextTab:    "tab",
			PrevTab:    "shift+tab",
			Help:       "?",
			Quit:       "ctrl+c",
		},
	}
	m.initBubbleComponents()
	for _, t := range restored {
		m.openWindow(t)
	}
	if len(m.Windows) == 0 {
		m.openWindow(nil)
	}
	m.Active = 0
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.progressRunning = progress.New(progress.WithDefaultGradient(), progress.WithWidth(48))
	m.progressPaused = progress.New(progress.WithSolidFill("#E5C07B"), progress.WithWidth(48))
	m.progressExpired = progress.New(progress.WithSolidFill("#E06C75"), progress.WithWidth(48))

	m.helpModel = help.New()
	m.helpModel.ShowAll = true

	m.aboutView = viewport.New(46, 14)
	m.aboutView.SetContent(aboutText())
}

func (m *Model) syncBubbleData() {
	if m.width > 0 {
		width := m.width - 12
		if width > 48 {
			width = 48
		}
		if width < 10 {
			width = 10
		}
		m.progressRunning.Width = width
		m.progressPaused.Width = width
		m.progressExpired.Width = width
	}
	for i, w := range m.Windows {
		if i == m.Active && w.Mode == ModeInput && !m.Palette.Active && !m.Menu.Active {
			w.Input.Focus()
		} else {
			w.Input.Blur()
		}
	}
}

func newInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "5:00"
	in.CharLimit = 64
	in.Width = 40
	return in
}
