package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/countdown/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.currentMode()),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) currentMode() WindowMode {
	if w := m.activeWindow(); w != nil {
		return w.Mode
	}
	return ModeInput
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.NextTab, Action: "next window"},
		{Key: m.Keys.PrevTab, Action: "previous window"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	switch m.currentMode() {
	case ModeInput:
		return []KeyBinding{
			{Key: "enter", Action: "start timer"},
			{Key: "up/down", Action: "recent inputs"},
			{Key: "esc", Action: "back to running timer / silence"},
		}
	default:
		return []KeyBinding{
			{Key: "space", Action: "pause/resume"},
			{Key: "s", Action: "stop"},
			{Key: "r", Action: "reset"},
			{Key: "e", Action: "edit input"},
			{Key: "n", Action: "new window"},
			{Key: "c", Action: "cycle sound"},
			{Key: m.Keys.Menu, Action: "context menu"},
			{Key: m.Keys.FullScreen, Action: "full screen"},
			{Key: "a", Action: "about"},
			{Key: "q", Action: "close window"},
			{Key: "esc", Action: "silence / back to input when expired"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.modeBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.modeBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
