// Package bus carries rig, profile, stream and recorder events between
// components.
package bus

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// EventType identifies different event types
type EventType string

// Event types for cortexmotion
const (
	// Rig events
	EventTypePersonalityChanged   EventType = "rig.personality_changed"
	EventTypeParametersOverridden EventType = "rig.parameters_overridden"
	EventTypeLegStateChanged      EventType = "rig.leg_state_changed"
	EventTypeRigReset             EventType = "rig.reset"

	// Profile events
	EventTypeProfileReloaded     EventType = "profile.reloaded"
	EventTypeProfileReloadFailed EventType = "profile.reload_failed"

	// Stream events
	EventTypeClientConnected    EventType = "stream.client_connected"
	EventTypeClientDisconnected EventType = "stream.client_disconnected"

	// Recorder events
	EventTypeClipRecorded EventType = "record.clip_recorded"
)

// SubscriptionBuffer is the number of events queued per subscription.
const SubscriptionBuffer = 64

// Event represents a bus event
type Event struct {
	Type EventType
	Data map[string]any
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID string

type subscription struct {
	id      SubscriptionID
	types   map[EventType]struct{} // nil matches every type
	handler Handler
	events  chan Event
	done    chan struct{}
}

func (s *subscription) matches(t EventType) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// EventBus delivers events to subscribers. Each subscription has its own
// goroutine, so a subscriber sees events in publish order.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[SubscriptionID]*subscription
	counter uint64
	closed  bool

	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[SubscriptionID]*subscription)}
}

// Subscribe registers handler for the given types, or for every type when
// none are given. It returns "" on a nil or closed bus.
func (b *EventBus) Subscribe(handler Handler, types ...EventType) SubscriptionID {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ""
	}

	b.counter++
	s := &subscription{
		id:      SubscriptionID(fmt.Sprintf("sub_%d", b.counter)),
		handler: handler,
		events:  make(chan Event, SubscriptionBuffer),
		done:    make(chan struct{}),
	}
	if len(types) > 0 {
		s.types = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			s.types[t] = struct{}{}
		}
	}
	b.subs[s.id] = s

	b.wg.Add(1)
	go b.deliver(s)
	return s.id
}

func (b *EventBus) deliver(s *subscription) {
	defer b.wg.Done()
	for {
		select {
		case e := <-s.events:
			s.handler(e)
		case <-s.done:
			return
		}
	}
}

// Unsubscribe stops a subscription. Events still queued for it are
// discarded.
func (b *EventBus) Unsubscribe(id SubscriptionID) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	s, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
		close(s.done)
	}
	b.mu.Unlock()
	return ok
}

// Publish queues event for every matching subscription without waiting.
// A subscription whose queue is full misses the event. A nil bus drops it.
func (b *EventBus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if !s.matches(event.Type) {
			continue
		}
		select {
		case s.events <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// PublishSync runs every matching handler on the caller's goroutine.
func (b *EventBus) PublishSync(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.matches(event.Type) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// Dropped counts events lost to full subscription queues.
func (b *EventBus) Dropped() uint64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}

// Close stops every subscription and waits for their handlers to return.
// Later Subscribe calls return "" and Publish becomes a no-op.
func (b *EventBus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		close(s.done)
	}
	b.mu.Unlock()
	b.wg.Wait()
}
