package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/starford/goldstar/internal/models"
)

// View is the current sort key and direction of the people table.
type View struct {
	By    models.SortBy    `json:"sortBy"`
	Order models.SortOrder `json:"sortOrder"`
}

// DefaultView orders by star count, highest first.
func DefaultView() View {
	return View{By: models.SortByStars, Order: models.SortDesc}
}

// Toggle flips the direction when by is the current key; otherwise it
// switches to by and resets the direction to descending.
func (v View) Toggle(by models.SortBy) View {
	if v.By == by {
		return View{By: by, Order: v.Order.Flip()}
	}
	return View{By: by, Order: models.SortDesc}
}

// SortPeople returns a new slice with people ordered by key and direction.
// The input slice is not modified. Equal keys keep their relative order.
func SortPeople(people []models.Person, by models.SortBy, order models.SortOrder) []models.Person {
	out := slices.Clone(people)
	if out == nil {
		out = []models.Person{}
	}
	compare := comparator(by)
	if compare == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Person) int {
		c := compare(a, b)
		if order == models.SortDesc {
			return -c
		}
		return c
	})
	return out
}

func comparator(by models.SortBy) func(a, b models.Person) int {
	switch by {
	case models.SortByName:
		return func(a, b models.Person) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case models.SortByStars:
		return func(a, b models.Person) int {
			return cmp.Compare(a.Stars, b.Stars)
		}
	case models.SortByDateAdded:
		return func(a, b models.Person) int {
			return a.DateAdded.Compare(b.DateAdded)
		}
	case models.SortByLastStarDate:
		return func(a, b models.Person) int {
			return lastStar(a).Compare(lastStar(b))
		}
	default:
		return nil
	}
}

// lastStar treats a person who was never starred as the earliest instant.
func lastStar(p models.Person) time.Time {
	if p.LastStarDate == nil {
		return time.Time{}
	}
	return *p.LastStarDate
}
