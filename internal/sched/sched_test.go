package sched

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAfterFiresOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	s.After(1500*time.Millisecond, func() { calls++ })

	clock.Advance(1499 * time.Millisecond)
	if n := s.Poll(); n != 0 || calls != 0 {
		t.Fatalf("Expected no fire before deadline, got n=%d calls=%d", n, calls)
	}

	clock.Advance(time.Millisecond)
	if n := s.Poll(); n != 1 || calls != 1 {
		t.Fatalf("Expected exactly one fire at deadline, got n=%d calls=%d", n, calls)
	}

	clock.Advance(time.Hour)
	s.Poll()
	if calls != 1 {
		t.Errorf("Expected one-shot to stay fired once, got %d", calls)
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", s.Pending())
	}
}

func TestEveryCatchesUpPerInterval(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	ticks := 0
	s.Every(100*time.Millisecond, func() { ticks++ })

	clock.Advance(100 * time.Millisecond)
	s.Poll()
	if ticks != 1 {
		t.Fatalf("Expected 1 tick, got %d", ticks)
	}

	// A stalled loop fires every missed interval.
	clock.Advance(350 * time.Millisecond)
	s.Poll()
	if ticks != 4 {
		t.Errorf("Expected 4 ticks after catch-up, got %d", ticks)
	}

	due, ok := s.NextDue()
	if !ok || !due.Equal(epoch.Add(500*time.Millisecond)) {
		t.Errorf("Expected next due at +500ms, got %v (ok=%v)", due, ok)
	}
}

func TestCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	fired := false
	id := s.After(time.Second, func() { fired = true })
	if !s.Cancel(id) {
		t.Fatal("Expected first cancel to succeed")
	}
	if s.Cancel(id) {
		t.Error("Expected second cancel to report false")
	}

	clock.Advance(2 * time.Second)
	s.Poll()
	if fired {
		t.Error("Cancelled timer fired")
	}
}

func TestPeriodicCanCancelItself(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	ticks := 0
	var id TimerID
	id = s.Every(100*time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			s.Cancel(id)
		}
	})

	clock.Advance(time.Second)
	s.Poll()
	if ticks != 3 {
		t.Errorf("Expected periodic timer to stop after 3 ticks, got %d", ticks)
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", s.Pending())
	}
}

func TestRunOrdersByDueThenCreation(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	var order []string
	s.After(200*time.Millisecond, func() { order = append(order, "c") })
	s.After(100*time.Millisecond, func() { order = append(order, "a") })
	s.After(100*time.Millisecond, func() { order = append(order, "b") })

	clock.Advance(time.Second)
	s.Poll()

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

func TestCallbackCanScheduleAndCancelAll(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	var fired []string
	s.After(100*time.Millisecond, func() {
		fired = append(fired, "first")
		s.CancelAll()
		s.After(100*time.Millisecond, func() { fired = append(fired, "second") })
	})
	s.After(150*time.Millisecond, func() { fired = append(fired, "dropped") })

	clock.Advance(100 * time.Millisecond)
	s.Poll()
	clock.Advance(100 * time.Millisecond)
	s.Poll()

	if len(fired) != 2 || fired[0] != "first" || fired[1] != "second" {
		t.Errorf("Expected [first second], got %v", fired)
	}
}

func TestEveryRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for zero interval")
		}
	}()
	New(nil).Every(0, func() {})
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock(epoch)
	clock.Advance(time.Minute)
	if got := clock.Now(); !got.Equal(epoch.Add(time.Minute)) {
		t.Errorf("Expected %v after Advance, got %v", epoch.Add(time.Minute), got)
	}
	later := epoch.Add(24 * time.Hour)
	clock.Set(later)
	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("Expected %v after Set, got %v", later, got)
	}
}
