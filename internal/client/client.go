// Package client wraps a websocket connection with typed helpers for
// the quiz protocol. It backs the integration tests and doubles as a
// reference client.
package client

import (
	"context"
	"fmt"

	"quizrush-backend/api"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type Client struct {
	conn *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func Dial(ctx context.Context, url string) (*Client, error) {
	conn, res, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if res != nil && res.Body != nil {
		res.Body.Close()
	}
	return NewClient(conn), nil
}

func (c *Client) Close() {
	c.conn.CloseNow()
}

// CreateRoom sends the host's first action and waits for the
// RoomCreated event carrying the new room id.
func (c *Client) CreateRoom(ctx context.Context, questions []api.Question) (string, error) {
	action := api.Action{Type: api.ActionTypeCreateRoom, Questions: questions}
	if err := wsjson.Write(ctx, c.conn, action); err != nil {
		return "", err
	}
	event, err := c.ReadHostEvent(ctx)
	if err != nil {
		return "", err
	}
	if event.Type != api.EventTypeRoomCreated {
		return "", fmt.Errorf("expected %s, got %s", api.EventTypeRoomCreated, event.Type)
	}
	return event.RoomID, nil
}

// JoinRoom sends the player's first action. The server sends nothing
// back on success; a rejected join surfaces as an Error message or the
// connection closing.
func (c *Client) JoinRoom(ctx context.Context, roomID, username string) error {
	action := api.Action{Type: api.ActionTypeJoinRoom, RoomID: roomID, Username: username}
	return wsjson.Write(ctx, c.conn, action)
}

// Send writes a raw action without waiting for any reply.
func (c *Client) Send(ctx context.Context, action api.Action) error {
	return wsjson.Write(ctx, c.conn, action)
}

// SendText writes a raw text frame, bypassing JSON encoding.
func (c *Client) SendText(ctx context.Context, text string) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(text))
}

func (c *Client) BeginRound(ctx context.Context) error {
	return wsjson.Write(ctx, c.conn, api.Action{Type: api.ActionTypeBeginRound})
}

func (c *Client) Answer(ctx context.Context, choice int) error {
	return wsjson.Write(ctx, c.conn, api.Action{Type: api.ActionTypeAnswer, Choice: choice})
}

func (c *Client) ReadHostEvent(ctx context.Context) (api.HostEvent, error) {
	var event api.HostEvent
	err := wsjson.Read(ctx, c.conn, &event)
	return event, err
}

func (c *Client) ReadUserEvent(ctx context.Context) (api.UserEvent, error) {
	var event api.UserEvent
	err := wsjson.Read(ctx, c.conn, &event)
	return event, err
}

// ReadError reads the next message and decodes it as an Error payload.
func (c *Client) ReadError(ctx context.Context) (api.ErrorData, error) {
	var data api.ErrorData
	err := wsjson.Read(ctx, c.conn, &data)
	return data, err
}
