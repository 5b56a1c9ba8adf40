package api_test

import (
	"encoding/json"
	"testing"

	"quizrush-backend/api"
)

func TestHostEventRoundEndKeepsEmptyPointGains(t *testing.T) {
	t.Parallel()

	event := api.HostEvent{Type: api.EventTypeRoundEnd, PointGains: map[string]int{}}
	b, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if got, want := string(b), `{"type":"RoundEnd","point_gains":{}}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestHostEventOmitsAbsentPointGains(t *testing.T) {
	t.Parallel()

	event := api.HostEvent{Type: api.EventTypeUserJoined, Username: "alice"}
	b, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if got, want := string(b), `{"type":"UserJoined","username":"alice"}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
