package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Many windows pausing and resuming at once: every timer reschedules a few
// times and every other one is cancelled. Exactly one deadline per surviving
// timer must come out.
func TestEngineStressRescheduleAndCancel(t *testing.T) {
	engine := NewEngine(0, 2048)
	engine.Start()
	defer engine.Stop()

	const timers = 400
	const reschedules = 5

	base := time.Now().Add(50 * time.Millisecond)
	var wg sync.WaitGroup
	wg.Add(timers)
	for i := 0; i < timers; i++ {
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("timer-%03d", i)
			for r := 0; r < reschedules; r++ {
				at := base.Add(time.Duration(i%20+r) * time.Millisecond)
				if err := engine.Schedule(Deadline{TimerID: id, At: at}); err != nil {
					t.Errorf("schedule %s: %v", id, err)
					return
				}
			}
			if i%2 == 1 {
				engine.Cancel(id)
			}
		}()
	}
	wg.Wait()

	want := timers / 2
	if got := engine.Pending(); got > want {
		t.Fatalf("expected at most %d pending deadlines, got %d", want, got)
	}

	seen := make(map[string]int)
	timeout := time.After(5 * time.Second)
	for len(seen) < want {
		select {
		case <-timeout:
			t.Fatalf("timeout: got %d of %d deadlines, dropped=%d", len(seen), want, engine.Dropped())
		case ev := <-engine.C():
			seen[ev.TimerID]++
		}
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event for %s", ev.TimerID)
	case <-time.After(100 * time.Millisecond):
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("timer %s fired %d times", id, n)
		}
		var idx int
		if _, err := fmt.Sscanf(id, "timer-%03d", &idx); err != nil || idx%2 == 1 {
			t.Fatalf("cancelled or unknown timer fired: %s", id)
		}
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with an active consumer, got %d", engine.Dropped())
	}
}
