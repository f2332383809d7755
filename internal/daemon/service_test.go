package daemon

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/lifeline/internal/forecast"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		TotalBalance:   "1000.00",
		DailyAllowance: "50.00",
		SafetyLevel:    forecast.Safe,
	}
	curr := Snapshot{
		TotalBalance:   "940.50",
		DailyAllowance: "47.00",
		SafetyLevel:    forecast.Warning,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Balance != "-59.50" {
		t.Fatalf("Balance delta = %s, want -59.50", delta.Balance)
	}
	if delta.Allowance != "-3.00" {
		t.Fatalf("Allowance delta = %s, want -3.00", delta.Allowance)
	}
	if delta.SafetyBefore != forecast.Safe || delta.SafetyAfter != forecast.Warning {
		t.Fatalf("safety delta = %s -> %s", delta.SafetyBefore, delta.SafetyAfter)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestDiffSnapshotsUnchanged(t *testing.T) {
	snap := Snapshot{
		TotalBalance:   "1000.00",
		DailyAllowance: "50.00",
		SafetyLevel:    forecast.Safe,
	}
	if delta := diffSnapshots(snap, snap); !delta.isZero() {
		t.Fatalf("delta = %+v, want zero", delta)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(nil, Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	}, zerolog.Nop())

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestSubscriberFanOutDropsWhenFull(t *testing.T) {
	s := New(nil, Config{EventsBuffer: 10}, zerolog.Nop())

	ch := make(chan Event, 1)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2}) // channel full, must not block

	if got := <-ch; got.ID != 1 {
		t.Fatalf("received event %d, want 1", got.ID)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event %d", ev.ID)
	default:
	}
}
