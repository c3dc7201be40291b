package ledger

// Outcome reports what a grant or revoke request did.
type Outcome int

const (
	// Applied means the counter changed and an action was logged.
	Applied Outcome = iota
	// UnknownPerson means no person has the given id.
	UnknownPerson
	// NoStars means a revoke was requested for a person with zero stars.
	NoStars
)

// String returns the snake_case name used by the API.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case UnknownPerson:
		return "unknown_person"
	case NoStars:
		return "no_stars"
	default:
		return "unknown"
	}
}
