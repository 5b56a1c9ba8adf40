package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"quizrush-backend/api"
	"quizrush-backend/internal/config"
	errs "quizrush-backend/internal/errors"
	"quizrush-backend/internal/quiz"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// hostEventBuffer bounds host events queued behind a slow host socket.
const hostEventBuffer = 30

// hostDriver implements quiz.HostDriver over a websocket. All outbound
// host events funnel through one ordered queue so the game loop, the
// presence relay and the answer collector never corrupt message order
// on the wire.
type hostDriver struct {
	conn   *websocket.Conn
	events chan api.HostEvent
	ctx    context.Context // session context, cancelled once the host is gone
}

func (h *hostDriver) NextAction(ctx context.Context) (api.Action, error) {
	// Malformed host frames are skipped rather than aborting the room;
	// only a dead connection surfaces as an error.
	return readAction(ctx, h.conn)
}

func (h *hostDriver) Notify(event api.HostEvent) {
	select {
	case h.events <- event:
	case <-h.ctx.Done():
	}
}

// runHost creates a room from the questions, registers it and owns its
// game from lobby to game end. It returns once the game completed or
// aborted; the room is never left registered behind it.
func runHost(ctx context.Context, cfg config.Config, rooms *quiz.Rooms, conn *websocket.Conn, questions []api.Question) {
	if err := validateQuestions(cfg, questions); err != nil {
		errs.WriteWebsocketError(ctx, conn, err)
		return
	}

	room := quiz.NewRoom(cfg.Room.MaxPlayers)
	roomID, err := rooms.Insert(room)
	if err != nil {
		errs.WriteWebsocketError(ctx, conn, errs.RoomLimitReachedError(err))
		return
	}

	log := slog.With(slog.String("room_id", roomID))
	log.InfoContext(ctx, "room created", slog.Int("questions", len(questions)))

	sessionCtx, cancelSession := context.WithCancel(ctx)
	defer cancelSession()

	driver := &hostDriver{
		conn:   conn,
		events: make(chan api.HostEvent, hostEventBuffer),
		ctx:    sessionCtx,
	}

	// Writer: the single ordered outbound path to the host.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for event := range driver.events {
			if err := wsjson.Write(sessionCtx, conn, event); err != nil {
				cancelSession()
				return
			}
		}
	}()

	// Relay presence join/leave events to the host as they arrive.
	relayCtx, cancelRelay := context.WithCancel(sessionCtx)
	defer cancelRelay()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		for {
			ev, ok := room.Presence().NextEvent(relayCtx)
			if !ok || relayCtx.Err() != nil {
				return
			}
			eventType := api.EventTypeUserJoined
			if ev.Type == quiz.PresenceLeft {
				eventType = api.EventTypeUserLeft
			}
			driver.Notify(api.HostEvent{Type: eventType, Username: ev.Username})
		}
	}()

	driver.Notify(api.HostEvent{Type: api.EventTypeRoomCreated, RoomID: roomID})

	game := quiz.NewGame(rooms, room, questions)
	if err := game.Run(sessionCtx, driver); err != nil {
		log.InfoContext(ctx, "game aborted", slog.Any("error", err))
	} else {
		log.InfoContext(ctx, "game completed")
	}

	// Stop relaying, then flush the outbound queue before closing.
	cancelRelay()
	<-relayDone
	close(driver.events)
	<-writerDone

	conn.Close(websocket.StatusNormalClosure, "game over")
}

func validateQuestions(cfg config.Config, questions []api.Question) error {
	if len(questions) == 0 {
		return errs.InvalidQuestionsError("no questions")
	}
	if cfg.Room.MaxQuestions >= 0 && len(questions) > cfg.Room.MaxQuestions {
		return errs.InvalidQuestionsError(fmt.Sprintf("more than %d questions", cfg.Room.MaxQuestions))
	}
	for i, q := range questions {
		if len(q.Choices) == 0 {
			return errs.InvalidQuestionsError(fmt.Sprintf("question %d has no choices", i))
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return errs.InvalidQuestionsError(fmt.Sprintf("question %d answer index out of range", i))
		}
		if q.Time <= 0 {
			return errs.InvalidQuestionsError(fmt.Sprintf("question %d has no time budget", i))
		}
	}
	return nil
}
