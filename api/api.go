// Package api contains the schema of the websocket api.
//
// All messages, both server -> client and client -> server, are JSON
// objects with a "type" discriminator field plus type-specific fields:
//
//	{
//	    "type": "<message_type>",
//	    "<field>": "<value>",
//	    ...
//	}
package api

type ActionType string

// Client -> server actions. CreateRoom and JoinRoom are only valid as
// the very first message on a new connection; BeginRound is host only
// and Answer is player only.
const (
	ActionTypeCreateRoom ActionType = "CreateRoom"
	ActionTypeJoinRoom   ActionType = "JoinRoom"
	ActionTypeBeginRound ActionType = "BeginRound"
	ActionTypeAnswer     ActionType = "Answer"
)

// Action is a client -> server message.
type Action struct {
	Type      ActionType `json:"type"`
	Questions []Question `json:"questions,omitempty"`
	RoomID    string     `json:"room_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Choice    int        `json:"choice,omitempty"`
}

type EventType string

// Server -> host events.
const (
	EventTypeRoomCreated  EventType = "RoomCreated"
	EventTypeUserJoined   EventType = "UserJoined"
	EventTypeUserLeft     EventType = "UserLeft"
	EventTypeUserAnswered EventType = "UserAnswered"
)

// Events sent to hosts and players alike.
const (
	EventTypeRoundBegin EventType = "RoundBegin"
	EventTypeRoundEnd   EventType = "RoundEnd"
	EventTypeGameEnd    EventType = "GameEnd"
	EventTypeError      EventType = "Error"
)

// HostEvent is a server -> host message. RoundBegin carries the full
// question, correct answer included, since the host never plays.
type HostEvent struct {
	Type       EventType      `json:"type"`
	RoomID     string         `json:"room_id,omitempty"`
	Username   string         `json:"username,omitempty"`
	Question   *Question      `json:"question,omitempty"`
	PointGains map[string]int `json:"point_gains,omitzero"`
}

// UserEvent is a server -> player message. PointGain is absent when the
// player earned nothing in the round.
type UserEvent struct {
	Type        EventType `json:"type"`
	ChoiceCount int       `json:"choice_count,omitempty"`
	PointGain   *int      `json:"point_gain,omitempty"`
}
