package timer

import (
	"strings"
	"time"
)

// Registry tracks every live timer of the application in insertion order.
type Registry struct {
	timers []*Timer
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Add(t *Timer) {
	if t == nil || r.Get(t.ID()) != nil {
		return
	}
	r.timers = append(r.timers, t)
}

func (r *Registry) Remove(id string) bool {
	for i, t := range r.timers {
		if t.ID() == id {
			r.timers = append(r.timers[:i:i], r.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Get(id string) *Timer {
	for _, t := range r.timers {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// Find resolves a timer by full id or unique id prefix.
func (r *Registry) Find(prefix string) *Timer {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	var match *Timer
	for _, t := range r.timers {
		if t.ID() == prefix {
			return t
		}
		if strings.HasPrefix(t.ID(), prefix) {
			if match != nil {
				return nil
			}
			match = t
		}
	}
	return match
}

func (r *Registry) All() []*Timer {
	out := make([]*Timer, len(r.timers))
	copy(out, r.timers)
	return out
}

func (r *Registry) Len() int {
	return len(r.timers)
}

// Resumable returns the running and paused timers.
func (r *Registry) Resumable() []*Timer {
	out := make([]*Timer, 0, len(r.timers))
	for _, t := range r.timers {
		if t.State().Active() {
			out = append(out, t)
		}
	}
	return out
}

// TickAll ticks every timer and returns the ones that expired on this tick.
func (r *Registry) TickAll(now time.Time) []*Timer {
	var expired []*Timer
	for _, t := range r.All() {
		before := t.State()
		t.Tick(now)
		if before == StateRunning && t.State() == StateExpired {
			expired = append(expired, t)
		}
	}
	return expired
}
