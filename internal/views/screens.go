package views

import (
	"fmt"
	"strings"
)

type TabData struct {
	Label  string
	State  string
	Active bool
}

type TimerPanelData struct {
	Title        string
	ShortID      string
	InputMode    bool
	InputView    string
	ErrorText    string
	State        string
	Time         string
	Elapsed      string
	ShowElapsed  bool
	EndTime      string
	ProgressView string
	ShowProgress bool
	Sound        string
	Flags        []string
	ConfirmClose bool
}

type MenuItemData struct {
	Label    string
	Checked  bool
	Toggle   bool
	Submenu  bool
	Selected bool
}

type MenuData struct {
	Items     []MenuItemData
	SoundOpen bool
	Sounds    []MenuItemData
}

type DetachedTimerData struct {
	ShortID string
	Title   string
	State   string
	Time    string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTabs(tabs []TabData) string {
	if len(tabs) < 2 {
		return ""
	}
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d:%s", i+1, tab.Label)
		if tab.State != "" {
			label += " " + stateBadge(tab.State)
		}
		if tab.Active {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	title := data.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(fmt.Sprintf("timer: %s [%s]\n", title, data.ShortID))

	if data.InputMode {
		b.WriteString("start: e.g. 300, 5:00, 1h30m, 5 minutes, until 17:30\n")
		b.WriteString(data.InputView + "\n")
		if data.ErrorText != "" {
			b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
		}
		b.WriteString("actions: [enter]start [up/down]recent [esc]back")
	} else {
		b.WriteString(fmt.Sprintf("state: %s\n", stateBadge(data.State)))
		b.WriteString(fmt.Sprintf("time: %s\n", styleForState(data.State, data.Time)))
		if data.ShowElapsed {
			b.WriteString(fmt.Sprintf("elapsed: %s\n", data.Elapsed))
		}
		if data.EndTime != "" {
			b.WriteString(fmt.Sprintf("ends: %s\n", data.EndTime))
		}
		if data.ShowProgress && data.ProgressView != "" {
			b.WriteString(data.ProgressView + "\n")
		}
		b.WriteString("actions: [space]pause/resume [s]stop [r]reset [n]new [m]menu")
	}

	b.WriteString(fmt.Sprintf("\n\nsound: %s", data.Sound))
	if len(data.Flags) > 0 {
		b.WriteString("\noptions: " + strings.Join(data.Flags, ", "))
	}
	if data.ConfirmClose {
		b.WriteString("\n\n" + errorStyle.Render("timer is still running, close anyway? [y/n]"))
	}
	return b.String()
}

func RenderMenu(data MenuData) string {
	var b strings.Builder
	b.WriteString("menu:\n")
	for _, item := range data.Items {
		b.WriteString(renderMenuItem(item) + "\n")
	}
	if data.SoundOpen {
		b.WriteString("\nsound:\n")
		for _, item := range data.Sounds {
			b.WriteString(renderMenuItem(item) + "\n")
		}
	}
	b.WriteString("\nkeys: [j/k]move [enter/space]select [esc]close")
	return b.String()
}

func RenderDetached(items []DetachedTimerData) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("detached timers:\n")
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(fmt.Sprintf("- %s %s %s %s\n", item.ShortID, stateBadge(item.State), item.Time, title))
	}
	b.WriteString("attach with /attach <id>")
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderMenuItem(item MenuItemData) string {
	cursor := " "
	if item.Selected {
		cursor = ">"
	}
	mark := "   "
	if item.Toggle {
		mark = "[ ]"
		if item.Checked {
			mark = "[x]"
		}
	}
	label := item.Label
	if item.Submenu {
		label += " >"
	}
	line := fmt.Sprintf("%s %s %s", cursor, mark, label)
	if item.Selected {
		return selectedStyle.Render(line)
	}
	return line
}

func stateBadge(state string) string {
	switch state {
	case "Running":
		return "[RUN]"
	case "Paused":
		return "[PAUSE]"
	case "Expired":
		return "[DONE]"
	default:
		return "[STOP]"
	}
}

func styleForState(state, text string) string {
	switch state {
	case "Expired":
		return expiredStyle.Render(text)
	case "Paused":
		return pausedStyle.Render(text)
	default:
		return text
	}
}
