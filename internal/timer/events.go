package timer

import "time"

type EventKind string

const (
	EventStarted   EventKind = "started"
	EventRestarted EventKind = "restarted"
	EventPaused    EventKind = "paused"
	EventResumed   EventKind = "resumed"
	EventStopped   EventKind = "stopped"
	EventExpired   EventKind = "expired"
	EventTick      EventKind = "tick"
)

type Event struct {
	Kind        EventKind
	TimerID     string
	State       State
	TimeLeft    time.Duration
	TimeElapsed time.Duration
	At          time.Time
}

type Observer interface {
	OnTimerEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnTimerEvent(ev Event) { f(ev) }

// Subscribe registers an observer. Observers are called synchronously in
// registration order. The returned func unsubscribes and is idempotent.
func (t *Timer) Subscribe(o Observer) func() {
	t.nextSubID++
	id := t.nextSubID
	t.observers = append(t.observers, subscription{id: id, observer: o})
	return func() {
		for i, sub := range t.observers {
			if sub.id == id {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Timer) ObserverCount() int {
	return len(t.observers)
}

func (t *Timer) emit(kind EventKind, now time.Time) {
	ev := Event{
		Kind:        kind,
		TimerID:     t.id,
		State:       t.state,
		TimeLeft:    t.TimeLeft(now),
		TimeElapsed: t.TimeElapsed(now),
		At:          now,
	}
	subs := make([]subscription, len(t.observers))
	copy(subs, t.observers)
	for _, sub := range subs {
		sub.observer.OnTimerEvent(ev)
	}
}
