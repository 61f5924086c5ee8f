// sim/events.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	vlog "github.com/nimbusfleet/vertisim/log"
)

// EventStream is a basic pub/sub interface so that a running simulation's
// tick-by-tick activity (demand matches, departures, holds, landings,
// fatal conditions) can be observed by a sweep runner or a CLI progress
// reporter without coupling them to the tick driver.
type EventStream struct {
	mu            sync.Mutex
	events        []Event
	subscriptions map[*EventsSubscription]interface{}
	lastPost      time.Time
	warnedLong    bool
	done          chan struct{}
	lg            *vlog.Logger
}

type EventsSubscription struct {
	stream *EventStream
	// offset is the index into the stream's events slice up to which this
	// subscriber has consumed events so far.
	offset      int
	source      string
	lastGet     time.Time
	warnedNoGet bool
}

func (e *EventsSubscription) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", e.offset),
		slog.String("source", e.source),
		slog.Time("last_get", e.lastGet))
}

func (e *EventsSubscription) PostEvent(event Event) {
	e.stream.Post(event)
}

func NewEventStream(lg *vlog.Logger) *EventStream {
	es := &EventStream{
		subscriptions: make(map[*EventsSubscription]interface{}),
		lastPost:      time.Now(),
		done:          make(chan struct{}),
		lg:            lg,
	}
	go es.monitor()
	return es
}

// Subscribe registers a new subscriber to the stream.
func (e *EventStream) Subscribe() *EventsSubscription {
	_, fn, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", fn, line)

	sub := &EventsSubscription{
		stream:  e,
		offset:  len(e.events),
		source:  source,
		lastGet: time.Now(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscriptions[sub] = nil
	return sub
}

func (e *EventStream) monitor() {
	tick := time.Tick(5 * time.Second)

	for {
		<-tick

		select {
		case <-e.done:
			return
		default:
		}

		e.mu.Lock()

		e.compact()

		if len(e.events) > 1000 && !e.warnedLong {
			e.lg.Warn("Long EventStream", slog.Int("length", len(e.events)),
				vlog.AnyPointerSlice("subscriptions", slices.Collect(maps.Keys(e.subscriptions))))
			e.warnedLong = true
		}

		if time.Since(e.lastPost) < 5*time.Second {
			for sub := range e.subscriptions {
				if d := time.Since(sub.lastGet); d > 10*time.Second && !sub.warnedNoGet {
					e.lg.Warn("Subscriber has not called Get() recently",
						slog.Duration("duration", d), slog.Any("subscriber", sub))
					sub.warnedNoGet = true
				}
			}
		}

		e.mu.Unlock()
	}
}

func (e *EventsSubscription) Unsubscribe() {
	e.stream.mu.Lock()
	defer e.stream.mu.Unlock()

	if _, ok := e.stream.subscriptions[e]; !ok {
		e.stream.lg.Errorf("Attempted to unsubscribe invalid subscription: %+v", e)
	}
	delete(e.stream.subscriptions, e)
	e.stream = nil
}

// postIfSet posts event if e is non-nil; callers that take an optional
// *EventStream parameter use this instead of guarding every call site.
func (e *EventStream) postIfSet(event Event) {
	if e != nil {
		e.Post(event)
	}
}

// Post adds an event to the stream; it is a no-op if no one is subscribed.
func (e *EventStream) Post(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lg.Debug("posted event", slog.Any("event", event))

	if len(e.subscriptions) > 0 {
		e.lastPost = time.Now()
		e.events = append(e.events, event)
	}
}

// Get returns all events posted since the subscriber's last Get call.
func (e *EventsSubscription) Get() []Event {
	e.stream.mu.Lock()
	defer e.stream.mu.Unlock()

	if _, ok := e.stream.subscriptions[e]; !ok {
		e.stream.lg.Errorf("Attempted to get with unregistered subscription: %+v", e)
		return nil
	}

	events := slices.Clone(e.stream.events[e.offset:])
	e.offset = len(e.stream.events)
	e.lastGet = time.Now()
	e.warnedNoGet = false

	return events
}

func (e *EventStream) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case e.done <- struct{}{}:
	default:
	}

	close(e.done)
	clear(e.subscriptions)
}

// compact reclaims storage for events every subscriber has already seen.
func (e *EventStream) compact() {
	minOffset := len(e.events)
	for sub := range e.subscriptions {
		if sub.offset < minOffset {
			minOffset = sub.offset
		}
	}

	if minOffset > cap(e.events)/2 {
		n := len(e.events) - minOffset

		copy(e.events, e.events[minOffset:])
		e.events = e.events[:n]

		for sub := range e.subscriptions {
			sub.offset -= minOffset
		}

		e.warnedLong = false
	}
}

func (e *EventStream) LogValue() slog.Value {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := []slog.Attr{slog.Int("len", len(e.events)), slog.Int("cap", cap(e.events))}
	if len(e.events) > 0 {
		items = append(items, slog.Any("last_element", e.events[len(e.events)-1]))
	}
	items = append(items, vlog.AnyPointerSlice("subscriptions", slices.Collect(maps.Keys(e.subscriptions))))
	return slog.GroupValue(items...)
}

///////////////////////////////////////////////////////////////////////////

// EventType is the kind of thing that happened during a tick.
type EventType int

const (
	DemandMatchedEvent EventType = iota
	DemandUnsuccessfulEvent
	AircraftDepartedEvent
	AircraftLandedEvent
	AircraftHoldingEvent
	AircraftHoldingViolationEvent
	FatalConditionEvent
	NumEventTypes
)

func (t EventType) String() string {
	return [...]string{
		"DemandMatched", "DemandUnsuccessful", "AircraftDeparted", "AircraftLanded",
		"AircraftHolding", "AircraftHoldingViolation", "FatalCondition",
	}[t]
}

// Event is a single tick-level occurrence, posted to an EventStream so
// outside observers (a sweep runner, a CLI progress line) can follow a
// run without polling the world directly.
type Event struct {
	Type        EventType
	Epoch       int64
	VertiportID int
	AircraftID  int
	DemandID    int
	Message     string
}

func (e Event) String() string {
	return fmt.Sprintf("%s @%d: vertiport=%d aircraft=%d demand=%d %s",
		e.Type, e.Epoch, e.VertiportID, e.AircraftID, e.DemandID, e.Message)
}

func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.Int64("epoch", e.Epoch),
	}
	if e.VertiportID != 0 {
		attrs = append(attrs, slog.Int("vertiport_id", e.VertiportID))
	}
	if e.AircraftID != 0 {
		attrs = append(attrs, slog.Int("aircraft_id", e.AircraftID))
	}
	if e.DemandID != 0 {
		attrs = append(attrs, slog.Int("demand_id", e.DemandID))
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("message", e.Message))
	}
	return slog.GroupValue(attrs...)
}
