package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizrush-backend/api"

	"github.com/benbjohnson/clock"
)

// ErrGameAborted reports that a game ended before completion: the host
// disconnected or sent something other than BeginRound at a point where
// only BeginRound advances the game.
var ErrGameAborted = errors.New("game aborted")

const (
	firstCorrectPoints = 1000
	minCorrectPoints   = 1
)

// HostDriver is the narrow surface the game loop needs from the host
// connection: a source of host actions and an ordered sink for host
// events. Notify must never block indefinitely once the host is gone.
type HostDriver interface {
	NextAction(ctx context.Context) (api.Action, error)
	Notify(event api.HostEvent)
}

// Game drives one room from lobby through the round loop to game end.
//
// Exactly one Game runs per room; it owns the room's state watch and is
// the only writer to it.
type Game struct {
	rooms     *Rooms
	room      *Room
	questions []api.Question
	clock     clock.Clock
}

func NewGame(rooms *Rooms, room *Room, questions []api.Question) *Game {
	return NewGameWithClock(rooms, room, questions, clock.New())
}

func NewGameWithClock(rooms *Rooms, room *Room, questions []api.Question, clk clock.Clock) *Game {
	return &Game{
		rooms:     rooms,
		room:      room,
		questions: questions,
		clock:     clk,
	}
}

// Run executes the game state machine until GameEnd or abort. On abort
// the room is removed from the registry and closed without any further
// broadcast: player handlers observe the watch closing. Run never
// leaves the room registered after returning.
func (g *Game) Run(ctx context.Context, host HostDriver) error {
	// Lobby: only BeginRound with at least one player present starts
	// the round loop.
	action, err := host.NextAction(ctx)
	if err != nil {
		return g.abort(fmt.Errorf("lobby: %w", err))
	}
	if action.Type != api.ActionTypeBeginRound {
		return g.abort(fmt.Errorf("lobby: unexpected action %q", action.Type))
	}
	if g.room.Presence().Count() == 0 {
		return g.abort(errors.New("lobby: no players present"))
	}

	for i, question := range g.questions {
		if err := g.runRound(ctx, host, question); err != nil {
			return g.abort(fmt.Errorf("round %d: %w", i, err))
		}

		// Wait for the host to advance before the next round or the
		// game end.
		action, err := host.NextAction(ctx)
		if err != nil {
			return g.abort(fmt.Errorf("round %d settling: %w", i, err))
		}
		if action.Type != api.ActionTypeBeginRound {
			return g.abort(fmt.Errorf("round %d settling: unexpected action %q", i, action.Type))
		}
	}

	host.Notify(api.HostEvent{Type: api.EventTypeGameEnd})
	g.room.state.Set(GameEvent{Type: GameEnded})

	g.rooms.Remove(g.room.ID())
	g.room.Close()

	return nil
}

// runRound announces a round, races the answer collector against the
// question's time budget, scores the collected answers and announces
// the results on both sides.
func (g *Game) runRound(ctx context.Context, host HostDriver, question api.Question) error {
	host.Notify(api.HostEvent{
		Type:     api.EventTypeRoundBegin,
		Question: &question,
	})
	g.room.state.Set(GameEvent{
		Type:        GameRoundBegin,
		ChoiceCount: len(question.Choices),
	})

	collectCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &collector{room: g.room, correct: question.Answer}
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.collect(collectCtx, host)
	}()

	deadline := g.clock.Timer(time.Duration(question.Time) * time.Second)
	defer deadline.Stop()

	select {
	case <-done:
		// Every present player answered; the timer is abandoned.
	case <-deadline.C:
		// Deadline first: cancel the collector but keep the answers
		// recorded so far.
		cancel()
		<-done
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}

	// The collector has stopped: its point gains are an immutable
	// snapshot from here on.
	gains := c.gains

	host.Notify(api.HostEvent{
		Type:       api.EventTypeRoundEnd,
		PointGains: gains,
	})
	g.room.state.Set(GameEvent{
		Type:       GameRoundEnd,
		PointGains: gains,
	})

	return nil
}

func (g *Game) abort(reason error) error {
	g.rooms.Remove(g.room.ID())
	g.room.Close()
	return fmt.Errorf("%w: %w", ErrGameAborted, reason)
}

// collector drains the room's answer channel for one round. It owns
// the point-gains accumulator exclusively until it stops.
type collector struct {
	room    *Room
	correct int
	gains   map[string]int
}

// collect records the first answer of each username, credits points for
// correct answers in arrival order and finishes early once every
// currently-present username has answered. Cancelling collect keeps the
// answers already recorded.
func (c *collector) collect(ctx context.Context, host HostDriver) {
	// Exclusive hand-off: no two rounds' collectors may drain the
	// answer channel concurrently.
	c.room.collectMu.Lock()
	defer c.room.collectMu.Unlock()

	c.gains = map[string]int{}
	answered := map[string]bool{}
	points := firstCorrectPoints

	for {
		select {
		case ans := <-c.room.answers:
			if answered[ans.Username] {
				// Repeat submissions in the same round are discarded.
				continue
			}
			answered[ans.Username] = true

			host.Notify(api.HostEvent{
				Type:     api.EventTypeUserAnswered,
				Username: ans.Username,
			})

			if ans.Choice == c.correct {
				c.gains[ans.Username] = points
				points = max(points*10/11, minCorrectPoints)
			}

			if c.allAnswered(answered) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *collector) allAnswered(answered map[string]bool) bool {
	for _, name := range c.room.Presence().Usernames() {
		if !answered[name] {
			return false
		}
	}
	return true
}
