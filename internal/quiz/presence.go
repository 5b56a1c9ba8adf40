package quiz

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrUsernameTaken = errors.New("username already present")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomClosed    = errors.New("room is closed")
)

type PresenceEventType int

const (
	PresenceJoined PresenceEventType = iota
	PresenceLeft
)

// PresenceEvent is a join or leave notification, delivered to the host
// handler in wall-clock arrival order.
type PresenceEvent struct {
	Type     PresenceEventType
	Username string
}

// Presence tracks the connected player names of one room. It enforces
// username uniqueness and emits join/leave events on an unbounded
// ordered queue consumed by the room's host handler.
//
// Multiple goroutines may invoke methods on a Presence simultaneously.
type Presence struct {
	mu         sync.Mutex
	users      map[string]struct{}
	maxPlayers int
	queue      []PresenceEvent
	wake       chan struct{}
	closed     bool
}

// NewPresence returns an empty tracker. A negative maxPlayers means no
// player limit.
func NewPresence(maxPlayers int) *Presence {
	return &Presence{
		users:      map[string]struct{}{},
		maxPlayers: maxPlayers,
		wake:       make(chan struct{}, 1),
	}
}

// Join registers username and returns a membership granting the right
// to later leave. It fails if the username is already present, the room
// is full or the presence has been torn down; the caller must then
// treat the connection as rejected.
func (p *Presence) Join(username string) (*Membership, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrRoomClosed
	}
	if _, taken := p.users[username]; taken {
		return nil, ErrUsernameTaken
	}
	if p.maxPlayers >= 0 && len(p.users) >= p.maxPlayers {
		return nil, ErrRoomFull
	}

	p.users[username] = struct{}{}
	p.push(PresenceEvent{Type: PresenceJoined, Username: username})

	return &Membership{p: p, username: username}, nil
}

// MaxPlayers returns the configured player cap, negative when
// unlimited.
func (p *Presence) MaxPlayers() int {
	return p.maxPlayers
}

// Count returns a non-blocking snapshot of the present player count.
func (p *Presence) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users)
}

// Usernames returns a snapshot of the present player names.
func (p *Presence) Usernames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.users))
	for name := range p.users {
		names = append(names, name)
	}
	return names
}

// NextEvent blocks until a join/leave event is queued and returns it.
// The second return value is false once the queue is drained after
// Close, or when ctx is done. Single consumer only.
func (p *Presence) NextEvent(ctx context.Context) (PresenceEvent, bool) {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			p.mu.Unlock()
			return ev, true
		}
		if p.closed {
			p.mu.Unlock()
			return PresenceEvent{}, false
		}
		p.mu.Unlock()

		select {
		case <-p.wake:
		case <-ctx.Done():
			return PresenceEvent{}, false
		}
	}
}

// Close tears down the event stream: no further joins are accepted and
// no further events are emitted.
func (p *Presence) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.signal()
}

// push appends an event to the queue. Callers must hold p.mu.
func (p *Presence) push(ev PresenceEvent) {
	p.queue = append(p.queue, ev)
	p.signal()
}

func (p *Presence) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Membership is the scoped handle granted by a successful Join. The
// owning handler must call Leave on every exit path.
type Membership struct {
	p        *Presence
	username string
	once     sync.Once
}

func (m *Membership) Username() string {
	return m.username
}

// Leave removes the username and emits a leave event. Subsequent calls
// are no-ops, so at most one leave event is ever emitted per join.
func (m *Membership) Leave() {
	m.once.Do(func() {
		m.p.mu.Lock()
		defer m.p.mu.Unlock()

		delete(m.p.users, m.username)
		if !m.p.closed {
			m.p.push(PresenceEvent{Type: PresenceLeft, Username: m.username})
		}
	})
}
