package metrics

import (
	"testing"
	"time"

	"github.com/courtsim/causelist/internal/core"
)

func day(y int, m time.Month, d int) core.Date {
	return core.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestEventLogAllReturnsEventsInEmissionOrder(t *testing.T) {
	log := NewEventLog()
	log.Emit(DayEvent{Date: day(2024, time.January, 1)})
	log.Emit(DayEvent{Date: day(2024, time.January, 2)})

	events := log.All()
	if len(events) != 2 {
		t.Fatalf("All() returned %d events, want 2", len(events))
	}
	if events[0].Date != day(2024, time.January, 1) || events[1].Date != day(2024, time.January, 2) {
		t.Errorf("events out of order: %v", events)
	}
}

func TestEventLogSubscribeReceivesFutureEvents(t *testing.T) {
	log := NewEventLog()
	ch := log.Subscribe()
	ev := DayEvent{Date: day(2024, time.January, 5)}
	log.Emit(ev)

	select {
	case got := <-ch:
		if got.Date != ev.Date {
			t.Errorf("subscriber received %v, want %v", got.Date, ev.Date)
		}
	default:
		t.Fatalf("subscriber channel had no event after Emit")
	}
}

func TestEventLogSubscriberDoesNotBlockOnFullChannel(t *testing.T) {
	log := NewEventLog()
	log.Subscribe() // never drained
	for i := 0; i < 100; i++ {
		log.Emit(DayEvent{Date: day(2024, time.January, 1)})
	}
	if len(log.All()) != 100 {
		t.Errorf("All() = %d events, want 100 even though a subscriber never drained", len(log.All()))
	}
}
