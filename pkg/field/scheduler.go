package field

import (
	"sync"
	"time"
)

// Scheduler runs work after the current event has been fully processed.
// The returned cancel func prevents fn from running if it has not started.
type Scheduler interface {
	Defer(fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func()) func()

// Defer calls s(fn).
func (s SchedulerFunc) Defer(fn func()) func() {
	return s(fn)
}

// TimerScheduler runs deferred work on a timer goroutine with zero delay.
// Callbacks run concurrently with the caller, so a field using it must not
// receive events while a correction may be pending. It is never the default.
var TimerScheduler Scheduler = SchedulerFunc(func(fn func()) func() {
	t := time.AfterFunc(0, fn)
	return func() { t.Stop() }
})

// Loop is a FIFO of deferred work that the owner drains with Flush, typically
// once after each event it dispatches.
type Loop struct {
	mu    sync.Mutex
	queue []*task
}

type task struct {
	fn       func()
	canceled bool
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Defer queues fn and returns a func that cancels it.
func (l *Loop) Defer(fn func()) func() {
	t := &task{fn: fn}
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		t.canceled = true
		l.mu.Unlock()
	}
}

// Flush runs queued work in order, including work queued by the tasks it
// runs, and returns how many tasks ran.
func (l *Loop) Flush() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		t := l.queue[0]
		l.queue = l.queue[1:]
		skip := t.canceled
		l.mu.Unlock()

		if !skip {
			t.fn()
			ran++
		}
	}
}

// Pending returns the number of queued tasks that have not been canceled.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, t := range l.queue {
		if !t.canceled {
			n++
		}
	}
	return n
}
