package control

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers a message to the UI event loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

type TimerInfo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	State       string     `json:"state"`
	TimeLeft    string     `json:"time_left"`
	TimeElapsed string     `json:"time_elapsed"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Input       string     `json:"input,omitempty"`
	Window      int        `json:"window"`
}

type CommandBody struct {
	Command string `json:"command"`
	Target  string `json:"target,omitempty"`
}

type Reply struct {
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CommandRequest runs one palette command line on the UI loop. Target selects
// a timer by id prefix; empty means the active window.
type CommandRequest struct {
	Command string
	Target  string
	Reply   chan<- Reply
}

type ListRequest struct {
	Reply chan<- []TimerInfo
}
