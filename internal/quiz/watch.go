package quiz

import (
	"context"
	"sync"
)

type GameEventType int

// Round-state transitions broadcast to players over a room's watch.
const (
	GameInLobby GameEventType = iota
	GameRoundBegin
	GameRoundEnd
	GameEnded
)

// GameEvent is the payload carried by a room's state watch.
type GameEvent struct {
	Type        GameEventType
	ChoiceCount int
	PointGains  map[string]int
}

// Watch is a single-slot latest-value channel with change notification.
//
// Subscribers observe only transitions set after they subscribe, never
// history. A subscriber that falls behind coalesces intermediate values
// and observes only the most recent one.
//
// Multiple goroutines may invoke methods on a Watch simultaneously.
type Watch struct {
	mu     sync.Mutex
	val    GameEvent
	ver    uint64
	notify chan struct{} // closed and replaced on every Set
	closed bool
}

func NewWatch(initial GameEvent) *Watch {
	return &Watch{val: initial, notify: make(chan struct{})}
}

// Set publishes a new value, waking every pending subscriber.
// Values set after Close are discarded.
func (w *Watch) Set(v GameEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.val = v
	w.ver++
	close(w.notify)
	w.notify = make(chan struct{})
}

// Close tears down the watch. Pending subscribers wake up and, once
// they have observed the last value, see no further transitions.
func (w *Watch) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.notify)
}

// Subscribe registers a subscription starting at the current version:
// the subscriber will not observe values set before this call.
func (w *Watch) Subscribe() *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &Subscription{w: w, seen: w.ver}
}

type Subscription struct {
	w    *Watch
	seen uint64
}

// Next blocks until a value newer than the last one observed is
// available and returns it. The second return value is false once the
// watch is closed with no unobserved value left, or when ctx is done.
func (s *Subscription) Next(ctx context.Context) (GameEvent, bool) {
	for {
		s.w.mu.Lock()
		if s.w.ver > s.seen {
			v := s.w.val
			s.seen = s.w.ver
			s.w.mu.Unlock()
			return v, true
		}
		if s.w.closed {
			s.w.mu.Unlock()
			return GameEvent{}, false
		}
		notify := s.w.notify
		s.w.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			return GameEvent{}, false
		}
	}
}
