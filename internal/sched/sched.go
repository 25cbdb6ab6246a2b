// Package sched provides a cooperative timer scheduler.
//
// A Scheduler never starts goroutines. The loop that owns it calls Run (or Poll)
// and every due callback executes on that loop's goroutine, one after another,
// so callbacks never interleave with each other or with the owner's own code.
package sched

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled timer. The zero value is never issued.
type TimerID uint64

type timer struct {
	id       TimerID
	due      time.Time
	interval time.Duration // 0 for one-shot timers
	fn       func()
	index    int // position in the heap, -1 once removed
}

// timerHeap orders timers by due time, then by creation order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].id < h[j].id
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler holds one-shot and periodic timers for a single owner loop.
// It is not safe for concurrent use.
type Scheduler struct {
	clock  Clock
	timers timerHeap
	byID   map[TimerID]*timer
	nextID TimerID
}

// New creates a scheduler reading deadlines from clock.
// A nil clock falls back to SystemClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock: clock,
		byID:  make(map[TimerID]*timer),
	}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run once, d after now.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(d, 0, fn)
}

// Every schedules fn to run every d, first at now+d.
// It panics if d is not positive.
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		panic("sched: non-positive interval for Every")
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, interval time.Duration, fn func()) TimerID {
	s.nextID++
	t := &timer{
		id:       s.nextID,
		due:      s.clock.Now().Add(d),
		interval: interval,
		fn:       fn,
	}
	heap.Push(&s.timers, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel stops a pending timer. Returns false if the timer already fired
// (one-shot) or was cancelled before.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if t.index >= 0 {
		heap.Remove(&s.timers, t.index)
	}
	return true
}

// CancelAll drops every pending timer.
func (s *Scheduler) CancelAll() {
	for _, t := range s.timers {
		t.index = -1
	}
	s.timers = s.timers[:0]
	clear(s.byID)
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// NextDue returns the deadline of the earliest pending timer.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.timers) == 0 {
		return time.Time{}, false
	}
	return s.timers[0].due, true
}

// Poll runs every timer due at the clock's current time.
func (s *Scheduler) Poll() int {
	return s.Run(s.clock.Now())
}

// Run fires all timers due at or before now in due order and returns how many
// callbacks ran. A periodic timer that fell behind fires once per missed
// interval. Callbacks may schedule or cancel timers, including their own.
func (s *Scheduler) Run(now time.Time) int {
	fired := 0
	for len(s.timers) > 0 {
		t := s.timers[0]
		if t.due.After(now) {
			break
		}
		if t.interval > 0 {
			t.due = t.due.Add(t.interval)
			heap.Fix(&s.timers, 0)
		} else {
			heap.Pop(&s.timers)
			delete(s.byID, t.id)
		}
		t.fn()
		fired++
	}
	return fired
}
