// Package eventbus is a best-effort in-process publish/subscribe channel.
//
// Delivery is at-most-once and unordered across subscribers: Publish never
// blocks, and an event is dropped for any subscriber whose buffer is full.
// Subscribers must not assume they observe every event or that two
// subscribers observe the same sequence.
package eventbus

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Event is a published notification
type Event struct {
	ID      uint64      `json:"id"`
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Bus fans events out to subscribers
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextSub uint64
	buffer  int

	seq     atomic.Uint64
	dropped atomic.Uint64
}

// New creates a bus whose subscribers buffer up to buffer events each
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{subs: make(map[uint64]*Subscription), buffer: buffer}
}

// Subscription receives events matching its topic filters
type Subscription struct {
	id       uint64
	bus      *Bus
	ch       chan Event
	patterns []string
	once     sync.Once
}

// C is the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close detaches the subscription and closes its channel
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		close(s.ch)
		s.bus.mu.Unlock()
	})
}

func (s *Subscription) matches(topic string) bool {
	if len(s.patterns) == 0 {
		return true
	}
	for _, p := range s.patterns {
		if p == topic || p == "*" {
			return true
		}
		if strings.HasSuffix(p, ".*") && strings.HasPrefix(topic, strings.TrimSuffix(p, "*")) {
			return true
		}
	}
	return false
}

// Subscribe registers for topics. A pattern ending in ".*" matches every
// topic with that prefix; no patterns means every topic.
func (b *Bus) Subscribe(patterns ...string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	s := &Subscription{
		id:       b.nextSub,
		bus:      b,
		ch:       make(chan Event, b.buffer),
		patterns: patterns,
	}
	b.subs[s.id] = s
	return s
}

// Publish offers the event to every matching subscriber without blocking
// and returns how many accepted it.
func (b *Bus) Publish(topic string, payload interface{}) int {
	ev := Event{
		ID:      b.seq.Add(1),
		Topic:   topic,
		Payload: payload,
		At:      time.Now().UTC(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, s := range b.subs {
		if !s.matches(topic) {
			continue
		}
		select {
		case s.ch <- ev:
			delivered++
		default:
			b.dropped.Add(1)
		}
	}
	return delivered
}

// Dropped is the number of deliveries skipped because a buffer was full
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Subscribers is the current subscriber count
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
