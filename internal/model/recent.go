package model

const DefaultRecentLimit = 10

// RecentStarts is a most-recently-used list of timer inputs, newest first.
type RecentStarts struct {
	items []TimerStart
	limit int
}

func NewRecentStarts(limit int) *RecentStarts {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentStarts{limit: limit}
}

func (r *RecentStarts) Add(ts TimerStart) {
	if ts.IsZero() {
		return
	}
	next := make([]TimerStart, 0, len(r.items)+1)
	next = append(next, ts)
	for _, item := range r.items {
		if item.Equal(ts) {
			continue
		}
		next = append(next, item)
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	r.items = next
}

func (r *RecentStarts) Items() []TimerStart {
	out := make([]TimerStart, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RecentStarts) Len() int {
	return len(r.items)
}

// Strings returns the stored inputs, newest first.
func (r *RecentStarts) Strings() []string {
	out := make([]string, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.String())
	}
	return out
}

// Load replaces the list from persisted inputs, skipping anything that no
// longer parses. Inputs are expected newest first.
func (r *RecentStarts) Load(inputs []string) {
	r.items = nil
	for i := len(inputs) - 1; i >= 0; i-- {
		ts, err := ParseTimerStart(inputs[i])
		if err != nil {
			continue
		}
		r.Add(ts)
	}
}
