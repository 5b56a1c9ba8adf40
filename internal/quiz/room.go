package quiz

import (
	"context"
	"sync"
)

// answerBuffer bounds in-flight answers racing the collector.
const answerBuffer = 20

// PlayerAnswer is one player's submission for the active round.
type PlayerAnswer struct {
	Username string
	Choice   int
}

// Room is the shared state of one game instance: a presence tracker, a
// watch broadcasting round-state transitions to every player and a
// point-to-point channel carrying player answers to the active round's
// collector.
//
// A Room is shared by the game loop and all player handlers; it lives
// from creation until the game loop exits or aborts.
type Room struct {
	id       string
	presence *Presence
	state    *Watch
	answers  chan PlayerAnswer

	// collectMu hands the answer channel off to exactly one round
	// collector at a time.
	collectMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewRoom returns a room in the lobby state. A negative maxPlayers
// means no player limit.
func NewRoom(maxPlayers int) *Room {
	return &Room{
		presence: NewPresence(maxPlayers),
		state:    NewWatch(GameEvent{Type: GameInLobby}),
		answers:  make(chan PlayerAnswer, answerBuffer),
		done:     make(chan struct{}),
	}
}

// ID returns the room's registry identifier. Empty until inserted.
func (r *Room) ID() string {
	return r.id
}

func (r *Room) Presence() *Presence {
	return r.presence
}

// Subscribe registers a player subscription on the room's state watch.
// A player joining mid-game observes only transitions from this point.
func (r *Room) Subscribe() *Subscription {
	return r.state.Subscribe()
}

// SubmitAnswer forwards a player answer to the active round's
// collector. It blocks while the in-flight buffer is full and fails
// once the room is closed or ctx is done.
func (r *Room) SubmitAnswer(ctx context.Context, ans PlayerAnswer) error {
	select {
	case r.answers <- ans:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the room down: the state watch closes so player handlers
// observe the end of the broadcast, the presence event stream stops and
// pending SubmitAnswer calls unblock. Close is idempotent.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.state.Close()
		r.presence.Close()
	})
}
