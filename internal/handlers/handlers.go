// Package handlers drives websocket connections through a quiz game:
// the first action on a new connection decides whether it becomes a
// room's host or one of its players.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quizrush-backend/api"
	"quizrush-backend/internal/config"
	errs "quizrush-backend/internal/errors"
	"quizrush-backend/internal/quiz"
	"quizrush-backend/internal/rate"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// WSHandler returns the single websocket endpoint. A connection's very
// first message must be CreateRoom or JoinRoom; anything else ends that
// connection.
func WSHandler(cfg config.Config, rooms *quiz.Rooms, limiter *rate.Limiter, acceptOpts websocket.AcceptOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &acceptOpts)
		if err != nil {
			// Accept already writes a status code and error message.
			slog.Error("websocket accept", slog.Any("error", err))
			return
		}
		conn.SetReadLimit(cfg.WebsocketReadLimit)
		defer conn.CloseNow()

		ctx := r.Context()
		go ping(ctx, conn, cfg.PingInterval) // Detect timed out connection.

		var action api.Action
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			slog.Error("first action read", slog.Any("error", err))
			return
		}

		switch action.Type {
		case api.ActionTypeCreateRoom:
			if limiter != nil && !limiter.Allow() {
				errs.WriteWebsocketError(ctx, conn, errs.RoomLimitReachedError(nil))
				return
			}
			runHost(ctx, cfg, rooms, conn, action.Questions)
		case api.ActionTypeJoinRoom:
			runPlayer(ctx, rooms, conn, action.RoomID, action.Username)
		default:
			err := fmt.Errorf("invalid first action %q", action.Type)
			errs.WriteWebsocketError(ctx, conn, errs.InvalidActionError(err, err.Error()))
		}
	}
}

// readAction reads frames until one decodes as an Action, logging and
// skipping malformed payloads. It returns an error only when the
// connection itself fails, which callers treat as a disconnect.
func readAction(ctx context.Context, conn *websocket.Conn) (api.Action, error) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return api.Action{}, err
		}
		var action api.Action
		if err := json.Unmarshal(data, &action); err != nil {
			slog.DebugContext(ctx, "skipping malformed message", slog.Any("error", err))
			continue
		}
		return action, nil
	}
}

func ping(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	for {
		select {
		case <-time.Tick(interval):
			timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := conn.Ping(timeoutCtx); err != nil {
				slog.Debug("ping failed, closing conn", slog.Any("error", err))
				conn.CloseNow()
				cancel()
				return
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
