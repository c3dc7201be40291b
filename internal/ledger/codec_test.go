package ledger

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/starford/goldstar/internal/apperr"
	"github.com/starford/goldstar/internal/models"
)

func TestEncodeWireFormat(t *testing.T) {
	reason := "great review"
	snap := models.Snapshot{
		People: []models.Person{
			{ID: "p1", Name: "Ada", Stars: 1, DateAdded: epoch, LastStarDate: at(5)},
			{ID: "p2", Name: "Bo", DateAdded: epoch},
		},
		Actions: []models.StarAction{
			{ID: "a1", PersonID: "p1", Kind: models.ActionGrant, Timestamp: *at(4)},
			{ID: "a2", PersonID: "p1", Kind: models.ActionRevoke, Timestamp: *at(5), Reason: &reason},
		},
	}
	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var raw struct {
		People  []map[string]any `json:"people"`
		Actions []map[string]any `json:"actions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw.Actions[0]["action"] != "add" || raw.Actions[1]["action"] != "remove" {
		t.Errorf("action tokens = %v, %v", raw.Actions[0]["action"], raw.Actions[1]["action"])
	}
	if _, ok := raw.People[1]["lastStarDate"]; ok {
		t.Error("absent lastStarDate must be omitted")
	}
	if _, ok := raw.Actions[0]["reason"]; ok {
		t.Error("absent reason must be omitted")
	}
	if raw.People[0]["dateAdded"] != "2025-03-01T09:00:00Z" {
		t.Errorf("dateAdded = %v", raw.People[0]["dateAdded"])
	}
}

func TestEncodeEmptyUsesArrays(t *testing.T) {
	data, err := Encode(models.Snapshot{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"people":[],"actions":[]}` {
		t.Errorf("empty snapshot = %s", data)
	}
}

func TestDecodeBrowserSnapshot(t *testing.T) {
	raw := `{"people":[{"id":"6b3c","name":"Ada","stars":2,"dateAdded":"2025-01-02T03:04:05.678Z","lastStarDate":"2025-01-03T00:00:00.000Z"}],
	"actions":[{"id":"x1","personId":"6b3c","action":"add","timestamp":"2025-01-03T00:00:00.000Z","reason":"demo"},
	{"id":"x2","personId":"gone","action":"remove","timestamp":"2025-01-03T00:00:00.000Z"}]}`
	snap, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p := snap.People[0]
	if p.DateAdded.Nanosecond() != 678_000_000 {
		t.Errorf("millisecond precision lost: %v", p.DateAdded)
	}
	if p.LastStarDate == nil {
		t.Error("lastStarDate missing")
	}
	if snap.Actions[0].Kind != models.ActionGrant || snap.Actions[1].Kind != models.ActionRevoke {
		t.Errorf("kinds = %v, %v", snap.Actions[0].Kind, snap.Actions[1].Kind)
	}
	if snap.Actions[1].Reason != nil {
		t.Error("reason should be absent")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"missing actions": `{"people":[]}`,
		"blank name":      `{"people":[{"id":"1","name":"","stars":0,"dateAdded":"2025-01-01T00:00:00Z"}],"actions":[]}`,
		"duplicate id":    `{"people":[{"id":"1","name":"A","stars":0,"dateAdded":"2025-01-01T00:00:00Z"},{"id":"1","name":"B","stars":0,"dateAdded":"2025-01-01T00:00:00Z"}],"actions":[]}`,
		"bad timestamp":   `{"people":[{"id":"1","name":"A","stars":0,"dateAdded":"yesterday"}],"actions":[]}`,
		"missing kind":    `{"people":[],"actions":[{"id":"a","personId":"1","timestamp":"2025-01-01T00:00:00Z"}]}`,
		"fractional star": `{"people":[{"id":"1","name":"A","stars":1.5,"dateAdded":"2025-01-01T00:00:00Z"}],"actions":[]}`,
	}
	for name, raw := range tests {
		_, err := Decode([]byte(raw))
		if !errors.Is(err, apperr.ErrMalformed) {
			t.Errorf("%s: err = %v, want ErrMalformed", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "malformed") {
			t.Errorf("%s: unexpected message %q", name, err)
		}
	}
}
