package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/commands"
	"github.com/sandeepkv93/countdown/internal/control"
	"github.com/sandeepkv93/countdown/internal/timer"
)

// onControlCommand runs a remote command line. A target timer is brought to
// the front first, attaching it when detached.
func (m Model) onControlCommand(req control.CommandRequest) (Model, tea.Cmd) {
	var reply control.Reply

	if req.Target != "" {
		t := m.App.Registry.Find(req.Target)
		if t == nil {
			reply = control.Reply{Code: control.CodeNotFound, Error: fmt.Sprintf("no timer matches %q", req.Target)}
			sendReply(req.Reply, reply)
			return m, nil
		}
		if idx, _ := m.windowFor(t.ID()); idx >= 0 {
			m.Active = idx
		} else {
			m.openWindow(t)
		}
	}

	res, cmd, err := m.runCommand(req.Command)
	if err != nil {
		reply = control.Reply{Code: codeOf(err), Error: err.Error()}
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		reply = control.Reply{Message: res.Message}
		m.Status = StatusBar{Text: res.Message}
		m.notify("Remote", res.Message, "info")
	}
	sendReply(req.Reply, reply)
	return m, cmd
}

func (m Model) onControlList(req control.ListRequest) (Model, tea.Cmd) {
	now := m.App.Clock.Now()
	timers := m.App.Registry.All()
	out := make([]control.TimerInfo, 0, len(timers))
	for _, t := range timers {
		info := control.TimerInfo{
			ID:          t.ID(),
			Title:       t.Options().Title,
			State:       string(t.State()),
			TimeLeft:    timer.FormatDuration(t.TimeLeft(now)),
			TimeElapsed: timer.FormatDuration(t.TimeElapsed(now)),
		}
		if end, ok := t.EndTime(); ok {
			info.EndTime = &end
		}
		if last := t.LastStart(); !last.IsZero() {
			info.Input = last.String()
		}
		if idx, _ := m.windowFor(t.ID()); idx >= 0 {
			info.Window = idx + 1
		}
		out = append(out, info)
	}
	if req.Reply != nil {
		select {
		case req.Reply <- out:
		default:
		}
	}
	return m, nil
}

func sendReply(ch chan<- control.Reply, reply control.Reply) {
	if ch == nil {
		return
	}
	select {
	case ch <- reply:
	default:
	}
}

func codeOf(err error) string {
	var cerr *commands.CommandError
	if errors.As(err, &cerr) {
		return string(cerr.Code)
	}
	return string(commands.ErrCodeInvalidArgument)
}
