// Package errors builds the typed error payloads of the websocket api
// and writes them to clients.
package errors

import (
	"context"
	"errors"
	"log/slog"

	"quizrush-backend/api"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// WriteWebsocketError logs err and writes its api representation to
// conn. Errors that are not api.ErrorData are reported as internal
// server errors without leaking their cause.
func WriteWebsocketError(ctx context.Context, conn *websocket.Conn, err error) {
	res := api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.InternalServerErrorCode,
		Message: "unexpected error",
	}

	apiErr := api.ErrorData{}
	if errors.As(err, &apiErr) {
		res.Code = apiErr.Code
		res.Message = apiErr.Message
		res.Extra = apiErr.Extra
	}

	slog.ErrorContext(ctx, "ws error",
		slog.Any("error", err),
		slog.Any("error_code", res.Code))

	if err := wsjson.Write(ctx, conn, res); err != nil {
		slog.ErrorContext(ctx, "ws error: failed to write response", slog.Any("error", err))
	}
}

func InvalidActionError(err error, cause string) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.InvalidActionCode,
		Message: "invalid action",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
		Err: err,
	}
}

func RoomNotFoundError(roomID string) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.RoomNotFoundCode,
		Message: "room not found",
		Extra: struct {
			RoomID string `json:"room_id"`
		}{
			RoomID: roomID,
		},
	}
}

func RoomLimitReachedError(err error) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.RoomLimitReachedCode,
		Message: "room limit reached",
		Err:     err,
	}
}

func TooManyPlayersError(maxPlayers int) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.TooManyPlayersCode,
		Message: "too many players",
		Extra: struct {
			MaxPlayers int `json:"max_players"`
		}{
			MaxPlayers: maxPlayers,
		},
	}
}

func UsernameAlreadyTakenError(username string) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.UsernameAlreadyTakenCode,
		Message: "username already taken",
		Extra: struct {
			Username string `json:"username"`
		}{
			Username: username,
		},
	}
}

func InvalidQuestionsError(cause string) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.InvalidQuestionsCode,
		Message: "invalid questions",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
	}
}

func InternalServerError(err error) api.ErrorData {
	return api.ErrorData{
		Type:    api.EventTypeError,
		Code:    api.InternalServerErrorCode,
		Message: "internal server error",
		Err:     err,
	}
}
