package handlers

import (
	"context"
	"errors"
	"log/slog"

	"quizrush-backend/api"
	errs "quizrush-backend/internal/errors"
	"quizrush-backend/internal/quiz"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"golang.org/x/sync/errgroup"
)

// runPlayer joins the room under username and runs the two player
// duties until either ends: relaying round-state transitions to the
// player and forwarding the player's answers into the room. Whichever
// duty finishes first cancels the other; the membership leaves on every
// exit path.
func runPlayer(ctx context.Context, rooms *quiz.Rooms, conn *websocket.Conn, roomID, username string) {
	room, ok := rooms.Find(roomID)
	if !ok {
		errs.WriteWebsocketError(ctx, conn, errs.RoomNotFoundError(roomID))
		return
	}

	member, err := room.Presence().Join(username)
	if err != nil {
		errs.WriteWebsocketError(ctx, conn, joinError(room, username, err))
		return
	}
	defer member.Leave()

	log := slog.With(slog.String("room_id", roomID), slog.String("username", member.Username()))
	log.InfoContext(ctx, "player joined")

	sub := room.Subscribe()

	dutyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := errgroup.Group{}
	g.Go(func() error {
		defer cancel()
		return forwardGameEvents(dutyCtx, conn, sub, member.Username())
	})
	g.Go(func() error {
		defer cancel()
		return forwardAnswers(dutyCtx, room, conn, member.Username())
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.DebugContext(ctx, "player session ended", slog.Any("error", err))
	} else {
		log.InfoContext(ctx, "player left")
	}
}

func joinError(room *quiz.Room, username string, err error) error {
	switch {
	case errors.Is(err, quiz.ErrUsernameTaken):
		return errs.UsernameAlreadyTakenError(username)
	case errors.Is(err, quiz.ErrRoomFull):
		return errs.TooManyPlayersError(room.Presence().MaxPlayers())
	case errors.Is(err, quiz.ErrRoomClosed):
		return errs.RoomNotFoundError(room.ID())
	default:
		return errs.InternalServerError(err)
	}
}

// forwardGameEvents relays round-state transitions from the room's
// watch to the player, hiding everything a player must not see. The
// connection closes normally on GameEnd; an aborted room surfaces as
// the watch closing, with no further notice to the player.
func forwardGameEvents(ctx context.Context, conn *websocket.Conn, sub *quiz.Subscription, username string) error {
	for {
		ev, ok := sub.Next(ctx)
		if !ok {
			return ctx.Err()
		}

		switch ev.Type {
		case quiz.GameRoundBegin:
			event := api.UserEvent{Type: api.EventTypeRoundBegin, ChoiceCount: ev.ChoiceCount}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return err
			}
		case quiz.GameRoundEnd:
			event := api.UserEvent{Type: api.EventTypeRoundEnd}
			if gain, ok := ev.PointGains[username]; ok {
				event.PointGain = &gain
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return err
			}
		case quiz.GameEnded:
			err := wsjson.Write(ctx, conn, api.UserEvent{Type: api.EventTypeGameEnd})
			conn.Close(websocket.StatusNormalClosure, "game over")
			return err
		case quiz.GameInLobby:
			// Nothing owed to a player still in the lobby.
		}
	}
}

// forwardAnswers reads player actions and forwards only Answer actions
// into the room's answer channel. Malformed frames and any other action
// types are ignored; only a dead connection ends the duty.
func forwardAnswers(ctx context.Context, room *quiz.Room, conn *websocket.Conn, username string) error {
	for {
		action, err := readAction(ctx, conn)
		if err != nil {
			return err
		}
		if action.Type != api.ActionTypeAnswer {
			slog.DebugContext(ctx, "ignoring player action",
				slog.String("type", string(action.Type)),
				slog.String("username", username))
			continue
		}

		ans := quiz.PlayerAnswer{Username: username, Choice: action.Choice}
		if err := room.SubmitAnswer(ctx, ans); err != nil {
			return err
		}
	}
}
