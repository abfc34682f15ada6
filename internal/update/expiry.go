package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/countdown/internal/notify"
	"github.com/sandeepkv93/countdown/internal/scheduler"
	"github.com/sandeepkv93/countdown/internal/sound"
	"github.com/sandeepkv93/countdown/internal/timer"
)

func waitForSchedulerCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func waitForPlaybackCmd(ch <-chan sound.PlaybackEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return PlaybackMsg{Event: ev}
	}
}

// expiryQueue collects timers that expired during one update, whatever
// caused it: a tick, a pause past the deadline or a zero start.
type expiryQueue struct {
	timers []*timer.Timer
}

func (q *expiryQueue) push(t *timer.Timer) {
	q.timers = append(q.timers, t)
}

func (q *expiryQueue) drain() []*timer.Timer {
	out := q.timers
	q.timers = nil
	return out
}

// onSchedulerEvent ticks every live timer and waits for the next event.
// Expired timers are picked up by handleExpiries.
func (m Model) onSchedulerEvent(msg SchedulerEventMsg) (Model, tea.Cmd) {
	m.App.Registry.TickAll(m.App.Clock.Now())
	if m.Scheduler != nil {
		return m, waitForSchedulerCmd(m.Scheduler.C())
	}
	return m, nil
}

// handleExpiries runs onExpired for every queued timer that is still live and
// expired. An error the update itself reported stays in the status bar.
func (m Model) handleExpiries(before StatusBar, cmd tea.Cmd) (Model, tea.Cmd) {
	if m.expired == nil || m.Quitting {
		return m, cmd
	}
	queued := m.expired.drain()
	if len(queued) == 0 {
		return m, cmd
	}
	reported := m.Status
	cmds := []tea.Cmd{cmd}
	for _, t := range queued {
		if m.App.Registry.Get(t.ID()) == nil || t.State() != timer.StateExpired {
			continue
		}
		cmds = append(cmds, m.onExpired(t), m.persistTimerCmd(t))
	}
	if reported.IsError && reported != before {
		m.Status = reported
	}
	return m, tea.Batch(cmds...)
}

// onExpired shows the expired timer, attaching it to a new window when it
// was detached, and restarts it when looping.
func (m *Model) onExpired(t *timer.Timer) tea.Cmd {
	label := timerLabel(t)
	if idx, w := m.windowFor(t.ID()); w != nil {
		w.Mode = ModeStatus
		w.ConfirmClose = false
		m.Active = idx
	} else {
		m.openWindow(t)
	}
	m.App.Logger.Info("timer expired", "timer", t.ShortID(), "title", t.Options().Title)
	m.Status = StatusBar{Text: fmt.Sprintf("%s expired", label)}
	m.notify("Timer expired", label, "info")
	cmd := m.desktopNotify("Timer expired", label)

	if t.Options().LoopTimer && t.TotalDuration() > 0 {
		if err := t.Restart(); err != nil {
			m.App.Logger.Warn("restart looping timer", "timer", t.ShortID(), "error", err)
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("%s expired, restarted", label)}
		}
	}
	return cmd
}

func (m Model) onPlayback(msg PlaybackMsg) (Model, tea.Cmd) {
	ev := msg.Event
	if ev.Err != nil {
		m.App.Logger.Warn("sound playback failed", "sound", ev.Sound, "error", ev.Err)
		m.Status = StatusBar{Text: fmt.Sprintf("sound %s failed: %v", ev.Sound, ev.Err), IsError: true}
	} else {
		m.App.Logger.Debug("sound playback", "sound", ev.Sound, "kind", ev.Kind)
	}
	return m, waitForPlaybackCmd(m.App.Player.Events())
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.App.Clock.Now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}

// desktopNotify sends through the desktop notifier when the notification
// area is enabled.
func (m *Model) desktopNotify(title, body string) tea.Cmd {
	if !m.App.Settings.ShowInNotificationArea || m.App.Notifier == nil {
		return nil
	}
	notifier, logger := m.App.Notifier, m.App.Logger
	n := notify.Notification{Title: title, Body: body, At: m.App.Clock.Now()}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notifier.Send(ctx, n); err != nil {
			logger.Warn("desktop notification failed", "error", err)
		}
		return nil
	}
}

func timerLabel(t *timer.Timer) string {
	if title := t.Options().Title; title != "" {
		return title
	}
	return "timer " + t.ShortID()
}
