// Package store holds the console's current view of one backend
// collection. A store has a single writer rule: loads are numbered as they
// begin, and a load may only commit if no later-started load has already
// committed. Slow loads are therefore superseded, never applied late.
package store

import (
	"context"
	"sync"
	"time"
)

// Ticket identifies one load
type Ticket uint64

// Snapshot is the last committed value
type Snapshot[T any] struct {
	Value     T         `json:"value"`
	Loaded    bool      `json:"loaded"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   Ticket    `json:"version"`
}

// Store is an observable holder of the latest committed value
type Store[T any] struct {
	mu        sync.RWMutex
	snap      Snapshot[T]
	issued    Ticket
	watchers  map[int]func(Snapshot[T])
	nextWatch int
	now       func() time.Time
}

// New creates an empty store
func New[T any]() *Store[T] {
	return &Store[T]{watchers: make(map[int]func(Snapshot[T])), now: time.Now}
}

// Begin starts a load
func (s *Store[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit stores v if t is newer than the committed version. It reports
// whether the value was applied.
func (s *Store[T]) Commit(t Ticket, v T) bool {
	s.mu.Lock()
	if t <= s.snap.Version {
		s.mu.Unlock()
		return false
	}
	s.snap = Snapshot[T]{Value: v, Loaded: true, UpdatedAt: s.now(), Version: t}
	snap := s.snap
	watchers := make([]func(Snapshot[T]), 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w(snap)
	}
	return true
}

// Load runs fetch as one ticketed load. On success the fresh value is
// returned even if it was superseded; applied reports whether it became
// the store's value. On error the store is untouched.
func (s *Store[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (v T, applied bool, err error) {
	t := s.Begin()
	v, err = fetch(ctx)
	if err != nil {
		return v, false, err
	}
	return v, s.Commit(t, v), nil
}

// Get returns the committed value and whether anything was ever loaded
func (s *Store[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Value, s.snap.Loaded
}

// Snapshot returns the committed value with its metadata
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Watch calls fn after every commit until the returned cancel is called.
// fn runs on the committing goroutine and must not block.
func (s *Store[T]) Watch(fn func(Snapshot[T])) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}
