// sim/events_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"testing"

	vrand "github.com/nimbusfleet/vertisim/rand"
)

func TestEventStream(t *testing.T) {
	es := NewEventStream(nil)

	es.Post(Event{})
	sub := es.Subscribe()
	if len(sub.Get()) != 0 {
		t.Errorf("Returned non-empty slice")
	}

	es.Post(Event{Type: DemandUnsuccessfulEvent})
	es.Post(Event{Type: AircraftDepartedEvent})
	s := sub.Get()
	if len(s) != 2 {
		t.Fatalf("didn't return 2 item slice")
	}
	if s[0].Type != DemandUnsuccessfulEvent {
		t.Errorf("Expected DemandUnsuccessfulEvent, got %v", s[0])
	}
	if s[1].Type != AircraftDepartedEvent {
		t.Errorf("Expected AircraftDepartedEvent, got %v", s[1])
	}

	if len(sub.Get()) != 0 {
		t.Errorf("Returned non-empty slice")
	}
}

func TestEventStreamCompact(t *testing.T) {
	es := NewEventStream(nil)

	subs := [4]*EventsSubscription{es.Subscribe(), es.Subscribe(), es.Subscribe(), es.Subscribe()}
	p := [4]float32{1, 0.75, 0.05, 0.5}
	var idx [4]int

	r := vrand.New()
	r.Seed(11)

	i, iter := 0, 0
	for i < 16384 {
		n := r.Intn(255)
		for j := 0; j < n; j++ {
			es.Post(Event{Type: EventType((i + j) % int(NumEventTypes))})
		}
		i += n

		if iter == 1 {
			subs[1].Unsubscribe()
		}

		for c, prob := range p {
			if r.Float64() > float64(prob) || (iter > 0 && c == 1) {
				continue
			}
			s := subs[c].Get()
			for _, sv := range s {
				if idx[c] != int(sv.Type) {
					t.Errorf("expected %d, got %d for consumer %d", idx[c], int(sv.Type), c)
				}
				idx[c] = (idx[c] + 1) % int(NumEventTypes)
			}
		}

		es.compact()
		iter++
	}

	if cap(es.events) > i/2 {
		t.Errorf("is compaction not happening? len %d cap %d", len(es.events), cap(es.events))
	}
}

func TestEventStreamUnsubscribedPostIsNoop(t *testing.T) {
	es := NewEventStream(nil)
	es.Post(Event{Type: FatalConditionEvent})
	if len(es.events) != 0 {
		t.Errorf("expected no events retained with zero subscribers, got %d", len(es.events))
	}
}
