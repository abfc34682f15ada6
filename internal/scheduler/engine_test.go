package scheduler

import (
	"testing"
	"time"
)

func TestEngineEmitsDeadlinesInOrder(t *testing.T) {
	engine := NewEngine(0, 8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Deadline{TimerID: "later", At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Deadline{TimerID: "sooner", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TimerID != "sooner" || second.TimerID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TimerID, second.TimerID)
	}
	if first.Kind != EventDeadline {
		t.Fatalf("expected deadline event, got %s", first.Kind)
	}
}

func TestEngineEmitsPeriodicTicks(t *testing.T) {
	engine := NewEngine(10*time.Millisecond, 8)
	engine.Start()
	defer engine.Stop()

	for i := 0; i < 3; i++ {
		ev := waitEvent(t, engine.C(), time.Second)
		if ev.Kind != EventTick {
			t.Fatalf("expected tick, got %s", ev.Kind)
		}
		if ev.TimerID != "" {
			t.Fatalf("tick should not carry a timer id, got %q", ev.TimerID)
		}
	}
}

func TestEngineRescheduleReplacesDeadline(t *testing.T) {
	engine := NewEngine(0, 8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Deadline{TimerID: "a", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Deadline{TimerID: "a", At: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending deadline, got %d", engine.Pending())
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.At.Before(now.Add(60 * time.Millisecond)) {
		t.Fatalf("expected the rescheduled deadline, got %v", ev.At.Sub(now))
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineCancelRemovesDeadline(t *testing.T) {
	engine := NewEngine(0, 8)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Deadline{TimerID: "a", At: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("a") {
		t.Fatalf("expected cancel to remove the deadline")
	}
	if engine.Cancel("a") {
		t.Fatalf("second cancel should be a no-op")
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("cancelled deadline fired: %+v", ev)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(time.Millisecond, 1)
	engine.Start()
	defer engine.Stop()

	time.Sleep(60 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(0, 1)
	if err := engine.Schedule(Deadline{TimerID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(0, 1)
	engine.Start()
	engine.Stop()
	engine.Stop()

	if err := engine.Schedule(Deadline{TimerID: "a", At: time.Now()}); err != ErrEngineStopped {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatalf("expected channel to be closed after stop")
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
