package ledger

import (
	"math"
	"time"

	"github.com/starford/goldstar/internal/models"
)

// RecentWindowDays is how far back ActionsThisWeek looks.
const RecentWindowDays = 7

// Summary holds aggregates derived from the current collections.
type Summary struct {
	TotalPeople     int            `json:"totalPeople"`
	TotalStars      int            `json:"totalStars"`
	AverageStars    float64        `json:"averageStars"`
	ActionsThisWeek int            `json:"actionsThisWeek"`
	TopPerformer    *models.Person `json:"topPerformer,omitempty"`
}

// Summarize computes the summary as of now. The average is rounded to one
// decimal place. The top performer is the first person with the strictly
// highest star count above zero.
func Summarize(people []models.Person, actions []models.StarAction, now time.Time) Summary {
	var sum Summary
	sum.TotalPeople = len(people)

	var top *models.Person
	for i := range people {
		p := people[i]
		sum.TotalStars += p.Stars
		best := 0
		if top != nil {
			best = top.Stars
		}
		if p.Stars > best {
			top = &p
		}
	}
	sum.TopPerformer = top

	if sum.TotalPeople > 0 {
		avg := float64(sum.TotalStars) / float64(sum.TotalPeople)
		sum.AverageStars = math.Round(avg*10) / 10
	}

	for _, a := range actions {
		if withinDays(now, a.Timestamp, RecentWindowDays) {
			sum.ActionsThisWeek++
		}
	}
	return sum
}

// withinDays rounds the absolute distance up to whole days, so anything
// less than a full day away counts as one day.
func withinDays(now, ts time.Time, days int) bool {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	d := math.Ceil(float64(diff) / float64(24*time.Hour))
	return d <= float64(days)
}
