package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

const DefaultTickInterval = time.Second

type EventKind string

const (
	EventTick     EventKind = "tick"
	EventDeadline EventKind = "deadline"
)

// Event is delivered on the engine channel. TimerID is empty for ticks.
type Event struct {
	Kind    EventKind
	TimerID string
	At      time.Time
}

// Deadline asks for a one-shot event for a timer at its end time.
type Deadline struct {
	TimerID string
	At      time.Time
}

type queueItem struct {
	deadline Deadline
	seq      uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].deadline.At.Equal(pq[j].deadline.At) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].deadline.At.Before(pq[j].deadline.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is the clock source of the application. It emits periodic ticks and
// per-timer deadlines on a single channel; sends never block.
type Engine struct {
	mu       sync.Mutex
	queue    priorityQueue
	seq      uint64
	interval time.Duration
	out      chan Event
	wakeup   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
	now      func() time.Time
}

// NewEngine creates an engine ticking every interval. A non-positive interval
// disables periodic ticks and only deadlines are delivered.
func NewEngine(interval time.Duration, bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:    make(priorityQueue, 0),
		interval: interval,
		out:      make(chan Event, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		now:      time.Now,
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

// Schedule replaces any pending deadline for the same timer.
func (e *Engine) Schedule(d Deadline) error {
	if d.At.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	e.removeLocked(d.TimerID)
	e.seq++
	heap.Push(&e.queue, queueItem{deadline: d, seq: e.seq})
	e.signalWakeup()
	return nil
}

// Cancel drops the pending deadline of a timer, if any.
func (e *Engine) Cancel(timerID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.removeLocked(timerID)
	if removed {
		e.signalWakeup()
	}
	return removed
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) removeLocked(timerID string) bool {
	if timerID == "" {
		return false
	}
	for i, item := range e.queue {
		if item.deadline.TimerID == timerID {
			heap.Remove(&e.queue, i)
			return true
		}
	}
	return false
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if e.interval > 0 {
		ticker = time.NewTicker(e.interval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	var timer *time.Timer
	for {
		var deadlineC <-chan time.Time
		if next, ok := e.peek(); ok {
			wait := next.At.Sub(e.now())
			if wait < 0 {
				wait = 0
			}
			timer = resetTimer(timer, wait)
			deadlineC = timer.C
		} else {
			stopTimer(timer)
		}

		select {
		case now := <-tickC:
			e.send(Event{Kind: EventTick, At: now})
		case <-deadlineC:
			for _, d := range e.popDue(e.now()) {
				e.send(Event{Kind: EventDeadline, TimerID: d.TimerID, At: d.At})
			}
		case <-e.wakeup:
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) send(ev Event) {
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Deadline, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Deadline{}, false
	}
	return e.queue[0].deadline, true
}

func (e *Engine) popDue(now time.Time) []Deadline {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Deadline, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].deadline
		if next.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.deadline)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
