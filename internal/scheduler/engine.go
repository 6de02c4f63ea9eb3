// Package scheduler raises due-date alerts for open tasks on a background
// timer. Alerts are delivered on a buffered channel and dropped, never
// blocked on, when the consumer falls behind.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
)

var (
	ErrInvalidDueTime = errors.New("scheduler: invalid due time")
	ErrStopped        = errors.New("scheduler: engine stopped")
)

type DueAlert struct {
	TaskID string
	Title  string
	DueAt  time.Time
}

func (a DueAlert) key() alertKey {
	return alertKey{taskID: a.TaskID, dueAt: a.DueAt.UnixNano()}
}

type alertKey struct {
	taskID string
	dueAt  int64
}

// alertQueue is a min-heap on DueAt.
type alertQueue []DueAlert

func (q alertQueue) Len() int           { return len(q) }
func (q alertQueue) Less(i, j int) bool { return q[i].DueAt.Before(q[j].DueAt) }
func (q alertQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *alertQueue) Push(x any)        { *q = append(*q, x.(DueAlert)) }

func (q *alertQueue) Pop() any {
	n := len(*q)
	a := (*q)[n-1]
	*q = (*q)[:n-1]
	return a
}

type Engine struct {
	mu      sync.Mutex
	queue   alertQueue
	fired   map[alertKey]struct{}
	out     chan DueAlert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alertQueue, 0),
		fired:  make(map[alertKey]struct{}),
		out:    make(chan DueAlert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C is closed after Stop returns.
func (e *Engine) C() <-chan DueAlert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(a DueAlert) error {
	if a.DueAt.IsZero() {
		return ErrInvalidDueTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	heap.Push(&e.queue, a)
	e.signalWakeup()
	return nil
}

// Replace swaps the pending plan for alerts. Alerts that already fired for the
// same task and due time are not raised again. Fired records for alerts absent
// from the new plan are forgotten.
func (e *Engine) Replace(alerts []DueAlert) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	next := make(alertQueue, 0, len(alerts))
	seen := make(map[alertKey]struct{}, len(alerts))
	fired := make(map[alertKey]struct{}, len(e.fired))
	for _, a := range alerts {
		if a.DueAt.IsZero() {
			continue
		}
		k := a.key()
		if _, ok := e.fired[k]; ok {
			fired[k] = struct{}{}
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		next = append(next, a)
	}
	heap.Init(&next)
	e.queue = next
	e.fired = fired
	e.signalWakeup()
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// PlanAlerts returns one alert per open task that has a due date.
func PlanAlerts(tasks []model.Task) []DueAlert {
	out := make([]DueAlert, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed || t.DueDate.IsZero() {
			continue
		}
		out = append(out, DueAlert{TaskID: t.ID, Title: t.Title, DueAt: t.DueDate})
	}
	return out
}

// loop sleeps until the earliest pending alert is due, then hands every due
// alert to deliver. Schedule and Replace wake it to re-arm the timer.
func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	drainTimer(timer)
	defer timer.Stop()

	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		drainTimer(timer)
		timer.Reset(max(time.Until(next.DueAt), 0))

		select {
		case <-timer.C:
			e.deliver(e.popDue(e.now()))
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

// deliver never blocks the loop; alerts the consumer has no room for are
// counted in Dropped.
func (e *Engine) deliver(due []DueAlert) {
	for _, a := range due {
		select {
		case e.out <- a:
		default:
			atomic.AddUint64(&e.dropped, 1)
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (DueAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return DueAlert{}, false
	}
	return e.queue[0], true
}

// popDue removes every alert due at or before now and remembers it as fired
// so a later Replace does not raise it again.
func (e *Engine) popDue(now time.Time) []DueAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []DueAlert
	for len(e.queue) > 0 && !e.queue[0].DueAt.After(now) {
		a := heap.Pop(&e.queue).(DueAlert)
		e.fired[a.key()] = struct{}{}
		out = append(out, a)
	}
	return out
}

func drainTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
