package update

import (
	"fmt"

	"github.com/sandeepkv93/countdown/internal/commands"
	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/sandeepkv93/countdown/internal/scheduler"
	"github.com/sandeepkv93/countdown/internal/timer"
)

// openWindow shows t in a new tab, or a fresh timer when t is nil.
func (m *Model) openWindow(t *timer.Timer) *Window {
	if t == nil {
		t = m.App.NewTimer()
	} else {
		m.App.Track(t)
	}
	m.bindTimer(t)
	m.nextWindowID++
	w := &Window{
		ID:     m.nextWindowID,
		Timer:  t,
		Mode:   ModeInput,
		Input:  newInput(),
		recent: -1,
	}
	if t.State() != timer.StateStopped {
		w.Mode = ModeStatus
	}
	m.Windows = append(m.Windows, w)
	m.Active = len(m.Windows) - 1
	return w
}

func (m Model) activeWindow() *Window {
	if len(m.Windows) == 0 {
		return nil
	}
	if m.Active < 0 || m.Active >= len(m.Windows) {
		return m.Windows[len(m.Windows)-1]
	}
	return m.Windows[m.Active]
}

func (m Model) windowFor(timerID string) (int, *Window) {
	for i, w := range m.Windows {
		if w.Timer.ID() == timerID {
			return i, w
		}
	}
	return -1, nil
}

// detached returns the live timers that no window shows.
func (m Model) detached() []*timer.Timer {
	var out []*timer.Timer
	for _, t := range m.App.Registry.All() {
		if _, w := m.windowFor(t.ID()); w == nil {
			out = append(out, t)
		}
	}
	return out
}

// bindTimer queues the timer's expiries for the model and, with a scheduler,
// keeps a deadline at the end time of a running timer so expiry is observed
// on time regardless of the tick interval.
func (m *Model) bindTimer(t *timer.Timer) {
	if _, ok := m.deadlines[t.ID()]; ok {
		return
	}
	engine, queue, logger := m.Scheduler, m.expired, m.App.Logger
	schedule := func() {
		if engine == nil {
			return
		}
		if end, ok := t.EndTime(); ok {
			if err := engine.Schedule(scheduler.Deadline{TimerID: t.ID(), At: end}); err != nil {
				logger.Warn("schedule timer deadline", "timer", t.ShortID(), "error", err)
			}
		}
	}
	m.deadlines[t.ID()] = t.Subscribe(timer.ObserverFunc(func(ev timer.Event) {
		switch ev.Kind {
		case timer.EventStarted, timer.EventRestarted, timer.EventResumed:
			schedule()
		case timer.EventExpired:
			queue.push(t)
			if engine != nil {
				engine.Cancel(t.ID())
			}
		case timer.EventPaused, timer.EventStopped:
			if engine != nil {
				engine.Cancel(t.ID())
			}
		}
	}))
	if t.State() == timer.StateRunning {
		schedule()
	}
}

func (m *Model) untrack(t *timer.Timer) {
	if unbind, ok := m.deadlines[t.ID()]; ok {
		unbind()
		delete(m.deadlines, t.ID())
	}
	if m.Scheduler != nil {
		m.Scheduler.Cancel(t.ID())
	}
	m.App.Untrack(t.ID())
}

// submitInput starts the window's timer from its input box. Starting by hand
// always unlocks the interface.
func (m *Model) submitInput(w *Window) (string, error) {
	w.Timer.Options().LockInterface = false
	return m.startTimer(w, w.Input.Value(), true)
}

// startTimer parses and starts input. A failure leaves the window prompting
// with the error shown, except on a locked window, which instead shows a
// timer that expired immediately.
func (m *Model) startTimer(w *Window, input string, remember bool) (string, error) {
	ts, err := model.ParseTimerStart(input)
	if err == nil {
		err = w.Timer.Start(ts)
	}
	if err != nil {
		if w.Timer.Options().LockInterface {
			_ = w.Timer.Start(model.TimerStartZero)
			w.Mode = ModeStatus
			w.Err = ""
			return "", err
		}
		w.Mode = ModeInput
		w.Err = err.Error()
		w.Input.SetValue(input)
		return "", err
	}

	w.Mode = ModeStatus
	w.Err = ""
	w.recent = -1
	w.Input.SetValue("")
	if remember {
		m.App.Remember(w.Timer)
	}
	m.App.Logger.Info("timer started", "timer", w.Timer.ShortID(), "input", ts.String())
	return fmt.Sprintf("started %s", ts.String()), nil
}

func (m *Model) pause(w *Window) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("pause")
	}
	if !w.Timer.Pause() {
		return "nothing to pause", nil
	}
	return "paused", nil
}

func (m *Model) resume(w *Window) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("resume")
	}
	if !w.Timer.Resume() {
		return "nothing to resume", nil
	}
	return "resumed", nil
}

func (m *Model) toggle(w *Window) (string, error) {
	switch w.Timer.State() {
	case timer.StateRunning:
		return m.pause(w)
	case timer.StatePaused:
		return m.resume(w)
	default:
		if w.Timer.Options().LockInterface {
			return "", commands.LockedError("pause/resume")
		}
		return "timer is not running", nil
	}
}

// stop discards the timer and prompts for a new one.
func (m *Model) stop(w *Window) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("stop")
	}
	w.Timer.Stop()
	m.App.Trigger.Silence(w.Timer.ID())
	w.Mode = ModeInput
	w.Err = ""
	w.recent = -1
	w.Input.SetValue("")
	return "stopped", nil
}

// reset stops the timer and prompts again with its last input.
func (m *Model) reset(w *Window) (string, error) {
	if w.Timer.Options().LockInterface {
		return "", commands.LockedError("reset")
	}
	w.Timer.Stop()
	m.App.Trigger.Silence(w.Timer.ID())
	w.Mode = ModeInput
	w.Err = ""
	w.recent = -1
	if last := w.Timer.LastStart(); !last.IsZero() {
		w.Input.SetValue(last.String())
	} else {
		w.Input.SetValue("")
	}
	return "reset", nil
}

// cancelOrReset backs out of the current mode. It reports whether anything
// changed.
func (m *Model) cancelOrReset(w *Window) bool {
	t := w.Timer
	switch w.Mode {
	case ModeInput:
		if t.State().Active() {
			w.Mode = ModeStatus
			w.Err = ""
			m.App.Trigger.Silence(t.ID())
			return true
		}
		return m.App.Trigger.Silence(t.ID())
	default:
		if t.State() == timer.StateExpired && !t.Options().LockInterface {
			t.Stop()
			w.Mode = ModeInput
			w.recent = -1
			if last := t.LastStart(); !last.IsZero() {
				w.Input.SetValue(last.String())
			}
			return true
		}
		return m.App.Trigger.Silence(t.ID())
	}
}

// requestClose closes the window unless it is locked with an active timer
// or needs the user to confirm first.
func (m *Model) requestClose(w *Window, confirmed bool) (string, error) {
	t := w.Timer
	if t.Options().LockInterface && t.State().Active() {
		return "", commands.LockedError("close")
	}
	if t.Options().PromptOnExit && t.State().Active() && !confirmed {
		w.ConfirmClose = true
		return "confirm close with y", nil
	}
	m.closeWindow(w)
	return "window closed", nil
}

// closeWindow removes the tab. An active timer stays alive detached; any
// other timer is dropped.
func (m *Model) closeWindow(w *Window) {
	w.ConfirmClose = false
	if m.width > 0 && m.height > 0 {
		size := model.WindowSize{Width: m.width, Height: m.height}
		w.Timer.Options().WindowSize = size
		m.App.Settings.WindowSize = size
	}
	if w.Timer.State().Active() {
		m.App.Logger.Info("timer detached", "timer", w.Timer.ShortID())
	} else {
		m.untrack(w.Timer)
	}
	idx, _ := m.windowFor(w.Timer.ID())
	if idx < 0 {
		return
	}
	m.Windows = append(m.Windows[:idx:idx], m.Windows[idx+1:]...)
	if m.Active >= idx && m.Active > 0 {
		m.Active--
	}
	if len(m.Windows) == 0 {
		m.Quitting = true
	}
}

// newWindow opens a tab seeded with the most recent options and starts input
// when given. A locked window without input shows an expired timer.
func (m *Model) newWindow(input string) (string, error) {
	w := m.openWindow(nil)
	if input != "" {
		return m.startTimer(w, input, true)
	}
	if w.Timer.Options().LockInterface {
		_ = w.Timer.Start(model.TimerStartZero)
		w.Mode = ModeStatus
	}
	return "new timer", nil
}

// attach shows a live timer by id prefix, focusing its tab if it already has
// one.
func (m *Model) attach(prefix string) (string, error) {
	t := m.App.Registry.Find(prefix)
	if t == nil {
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no timer matches %q", prefix)}
	}
	if idx, _ := m.windowFor(t.ID()); idx >= 0 {
		m.Active = idx
		return fmt.Sprintf("timer %s already shown", t.ShortID()), nil
	}
	m.openWindow(t)
	if t.State() == timer.StateExpired && t.Options().LoopSound {
		m.App.Trigger.Ring(t)
	}
	return fmt.Sprintf("attached timer %s", t.ShortID()), nil
}

func (m *Model) recentInput(w *Window, step int) {
	items := m.App.Recent.Items()
	if len(items) == 0 {
		return
	}
	next := w.recent + step
	if next >= len(items) {
		next = len(items) - 1
	}
	if next < 0 {
		w.recent = -1
		w.Input.SetValue("")
		return
	}
	w.recent = next
	w.Input.SetValue(items[next].String())
	w.Input.CursorEnd()
}

func (m *Model) switchTab(step int) {
	if len(m.Windows) < 2 {
		return
	}
	m.Active = (m.Active + step + len(m.Windows)) % len(m.Windows)
}
