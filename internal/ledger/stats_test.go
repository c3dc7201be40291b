package ledger

import (
	"testing"
	"time"

	"github.com/starford/goldstar/internal/models"
)

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, nil, epoch)
	if sum.TotalPeople != 0 || sum.TotalStars != 0 || sum.AverageStars != 0 || sum.TopPerformer != nil {
		t.Errorf("empty summary = %+v", sum)
	}
}

func TestSummarizeTotals(t *testing.T) {
	people := []models.Person{
		{ID: "1", Name: "A", Stars: 1},
		{ID: "2", Name: "B", Stars: 3},
		{ID: "3", Name: "C", Stars: 3},
	}
	sum := Summarize(people, nil, epoch)
	if sum.TotalPeople != 3 || sum.TotalStars != 7 {
		t.Errorf("totals = %+v", sum)
	}
	if sum.AverageStars != 2.3 {
		t.Errorf("average = %v, want 2.3", sum.AverageStars)
	}
	if sum.TopPerformer == nil || sum.TopPerformer.ID != "2" {
		t.Errorf("top = %+v, want first person with most stars", sum.TopPerformer)
	}
}

func TestSummarizeNoTopWithoutStars(t *testing.T) {
	people := []models.Person{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
	if sum := Summarize(people, nil, epoch); sum.TopPerformer != nil {
		t.Errorf("top = %+v, want none", sum.TopPerformer)
	}
}

func TestSummarizeRecentActions(t *testing.T) {
	day := 24 * time.Hour
	actions := []models.StarAction{
		{ID: "a", Timestamp: epoch.Add(-time.Hour)},
		{ID: "b", Timestamp: epoch.Add(-7 * day)},
		{ID: "c", Timestamp: epoch.Add(-7*day - time.Minute)},
		{ID: "d", Timestamp: epoch.Add(2 * day)},
		{ID: "e", Timestamp: epoch.Add(-30 * day)},
	}
	if got := Summarize(nil, actions, epoch).ActionsThisWeek; got != 3 {
		t.Errorf("recent = %d, want 3", got)
	}
}
