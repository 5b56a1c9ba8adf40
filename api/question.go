package api

// Question is supplied by the host in CreateRoom and echoed back in the
// host-bound RoundBegin. Time is the round's budget in seconds; Answer
// is the 0-based index of the correct choice.
type Question struct {
	Question string   `json:"question"`
	Time     int      `json:"time"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
}
