package quiz

import (
	"errors"
	"sync"

	"github.com/lithammer/shortuuid/v3"
)

var ErrNoRoomSlotAvailable = errors.New("no room slot available")

const (
	roomIDLength    = 5
	insertIDRetries = 50
)

// Rooms is the process-wide registry of live rooms. Operations are
// O(1) under a single lock, never held across I/O.
//
// Multiple goroutines may invoke methods on Rooms simultaneously.
type Rooms struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	maxRooms int
}

// NewRooms returns an in-memory registry capped at maxRooms live
// rooms. A negative maxRooms means no limit.
func NewRooms(maxRooms int) *Rooms {
	return &Rooms{
		rooms:    map[string]*Room{},
		maxRooms: maxRooms,
	}
}

// Insert generates a fresh identifier, stores the room under it and
// returns it. It fails when the room cap is reached or, pathologically,
// when no non-colliding identifier is found.
func (r *Rooms) Insert(room *Room) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxRooms >= 0 && len(r.rooms) >= r.maxRooms {
		return "", ErrNoRoomSlotAvailable
	}

	for retries := insertIDRetries; retries > 0; retries-- {
		id := newRoomID()
		if _, exists := r.rooms[id]; exists {
			continue
		}
		room.id = id
		r.rooms[id] = room
		return id, nil
	}
	return "", ErrNoRoomSlotAvailable
}

// Find returns the room registered under id, if any.
func (r *Rooms) Find(id string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Remove deletes the registry entry if present. Removing an absent or
// already-removed id is not an error.
func (r *Rooms) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// Len returns the number of live rooms.
func (r *Rooms) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

func newRoomID() string {
	return shortuuid.New()[:roomIDLength]
}
