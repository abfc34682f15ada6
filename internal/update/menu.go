package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/commands"
	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/sandeepkv93/countdown/internal/views"
)

type MenuState struct {
	Active      bool
	Cursor      int
	SoundOpen   bool
	SoundCursor int
}

type menuAction string

const (
	menuNewTimer   menuAction = "new"
	menuFullScreen menuAction = "fullscreen"
	menuSound      menuAction = "sound"
	menuAbout      menuAction = "about"
	menuClose      menuAction = "close"
	menuOption     menuAction = "option"
)

type menuItem struct {
	label  string
	action menuAction
	option commands.Option
}

var menuItems = []menuItem{
	{label: "New timer", action: menuNewTimer},
	{label: "Always on top", action: menuOption, option: commands.OptionAlwaysOnTop},
	{label: "Full screen", action: menuFullScreen},
	{label: "Prompt on exit", action: menuOption, option: commands.OptionPromptOnExit},
	{label: "Show progress", action: menuOption, option: commands.OptionShowProgress},
	{label: "Show in notification area", action: menuOption, option: commands.OptionShowInNotificationArea},
	{label: "Show time elapsed", action: menuOption, option: commands.OptionShowTimeElapsed},
	{label: "Loop timer", action: menuOption, option: commands.OptionLoopTimer},
	{label: "Sound", action: menuSound},
	{label: "Loop sound", action: menuOption, option: commands.OptionLoopSound},
	{label: "Lock interface", action: menuOption, option: commands.OptionLockInterface},
	{label: "About", action: menuAbout},
	{label: "Close", action: menuClose},
}

// openMenu refuses while the interface is locked.
func (m *Model) openMenu() {
	w := m.activeWindow()
	if w == nil {
		return
	}
	if w.Timer.Options().LockInterface {
		m.Status = StatusBar{Text: commands.LockedError("menu").Error(), IsError: true}
		return
	}
	m.Menu = MenuState{Active: true}
	m.Status = StatusBar{Text: "menu open"}
}

// closeMenu hides the menu and persists the options it may have changed.
func (m *Model) closeMenu() tea.Cmd {
	m.Menu = MenuState{}
	return m.persistCmd()
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	w := m.activeWindow()
	if w == nil {
		cmd := m.closeMenu()
		return m, cmd
	}
	if m.Menu.SoundOpen {
		return m.handleSoundMenuKey(msg, w)
	}
	switch msg.String() {
	case "esc", m.Keys.Menu, "q":
		cmd := m.closeMenu()
		m.Status = StatusBar{Text: "menu closed"}
		return m, cmd
	case "j", "down":
		m.Menu.Cursor = (m.Menu.Cursor + 1) % len(menuItems)
	case "k", "up":
		m.Menu.Cursor = (m.Menu.Cursor - 1 + len(menuItems)) % len(menuItems)
	case "enter", " ", "l", "right":
		return m.selectMenuItem(w, menuItems[m.Menu.Cursor])
	}
	return m, nil
}

func (m Model) selectMenuItem(w *Window, item menuItem) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch item.action {
	case menuNewTimer:
		cmds = append(cmds, m.closeMenu())
		msg, _ := m.newWindow("")
		m.Status = StatusBar{Text: msg}
	case menuFullScreen:
		cmds = append(cmds, m.closeMenu(), m.toggleFullScreen())
	case menuSound:
		m.Menu.SoundOpen = true
		m.Menu.SoundCursor = 0
		sounds := m.soundChoices()
		for i, s := range sounds {
			if model.SameSound(s, w.Timer.Options().Sound) {
				m.Menu.SoundCursor = i
			}
		}
	case menuAbout:
		cmds = append(cmds, m.closeMenu())
		m.AboutVisible = true
	case menuClose:
		m.Menu = MenuState{}
		msg, err := m.requestClose(w, false)
		m.setResult(msg, err)
		cmds = append(cmds, m.persistCmd())
		if m.Quitting {
			cmds = append(cmds, tea.Quit)
		}
	case menuOption:
		msg, err := m.setOption(w, item.option, nil)
		m.setResult(msg, err)
		if item.option == commands.OptionLockInterface && w.Timer.Options().LockInterface {
			cmds = append(cmds, m.closeMenu())
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSoundMenuKey(msg tea.KeyMsg, w *Window) (Model, tea.Cmd) {
	sounds := m.soundChoices()
	switch msg.String() {
	case "esc", "h", "left":
		m.Menu.SoundOpen = false
	case "j", "down":
		m.Menu.SoundCursor = (m.Menu.SoundCursor + 1) % len(sounds)
	case "k", "up":
		m.Menu.SoundCursor = (m.Menu.SoundCursor - 1 + len(sounds)) % len(sounds)
	case "enter", " ":
		chosen := sounds[m.Menu.SoundCursor]
		w.Timer.Options().Sound = chosen
		m.Menu.SoundOpen = false
		m.Status = StatusBar{Text: "sound: " + chosen.DisplayName()}
	}
	return m, nil
}

// soundChoices lists None followed by the catalog.
func (m Model) soundChoices() []*model.Sound {
	all := m.App.Catalog.All()
	out := make([]*model.Sound, 0, len(all)+1)
	out = append(out, nil)
	for i := range all {
		s := all[i]
		out = append(out, &s)
	}
	return out
}

func (m Model) renderMenuIfVisible() string {
	w := m.activeWindow()
	if !m.Menu.Active || w == nil {
		return ""
	}
	data := views.MenuData{SoundOpen: m.Menu.SoundOpen}
	for i, item := range menuItems {
		entry := views.MenuItemData{
			Label:    item.label,
			Selected: i == m.Menu.Cursor && !m.Menu.SoundOpen,
		}
		switch item.action {
		case menuOption:
			entry.Toggle = true
			entry.Checked = m.optionValue(w, item.option)
		case menuFullScreen:
			entry.Toggle = true
			entry.Checked = m.FullScreen
		case menuSound:
			entry.Submenu = true
			entry.Label = "Sound: " + w.Timer.Options().Sound.DisplayName()
		}
		data.Items = append(data.Items, entry)
	}
	if m.Menu.SoundOpen {
		for i, s := range m.soundChoices() {
			data.Sounds = append(data.Sounds, views.MenuItemData{
				Label:    s.DisplayName(),
				Toggle:   true,
				Checked:  model.SameSound(s, w.Timer.Options().Sound),
				Selected: i == m.Menu.SoundCursor,
			})
		}
	}
	return views.RenderMenu(data)
}
