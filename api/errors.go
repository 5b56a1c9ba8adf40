package api

type ErrorCode uint8

const (
	InvalidActionCode        ErrorCode = 101
	RoomNotFoundCode         ErrorCode = 102
	RoomLimitReachedCode     ErrorCode = 103
	TooManyPlayersCode       ErrorCode = 104
	UsernameAlreadyTakenCode ErrorCode = 105
	InvalidQuestionsCode     ErrorCode = 106
	InternalServerErrorCode  ErrorCode = 107
)

// ErrorData is the payload of an "Error" message. It doubles as a Go
// error so handlers can log and write the same value.
type ErrorData struct {
	Type    EventType `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message,omitempty"`
	Extra   any       `json:"extra,omitempty"`
	Err     error     `json:"-"`
}

func (e ErrorData) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func (e ErrorData) Unwrap() error {
	return e.Err
}
