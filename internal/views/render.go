package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Tabs         string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

type FullScreenData struct {
	Title  string
	Time   string
	State  string
	Width  int
	Height int
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bigTimeStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.DoubleBorder())
	expiredStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

func RenderApp(data AppData) string {
	row := panelStyle.Width(58).Render(data.LeftPane)
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(46).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Tabs != "" {
		lines = append(lines, data.Tabs)
	}
	lines = append(lines, row, status)
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderFullScreen centers a large countdown in the terminal.
func RenderFullScreen(data FullScreenData) string {
	style := bigTimeStyle
	switch data.State {
	case "Expired":
		style = style.Inherit(expiredStyle)
	case "Paused":
		style = style.Inherit(pausedStyle)
	}
	body := style.Render(data.Time)
	if data.Title != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, headerStyle.Render(data.Title), body)
	}
	body = lipgloss.JoinVertical(lipgloss.Center, body, footerStyle.Render(strings.ToLower(data.State)+"  [f] exit full screen"))
	if data.Width <= 0 || data.Height <= 0 {
		return body
	}
	return lipgloss.Place(data.Width, data.Height, lipgloss.Center, lipgloss.Center, body)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
