package ledger

import "github.com/starford/goldstar/internal/models"

// EventKind identifies what happened to the ledger.
type EventKind string

// Event kinds.
const (
	EventPersonAdded   EventKind = "person.added"
	EventPersonRemoved EventKind = "person.removed"
	EventStarGranted   EventKind = "star.granted"
	EventStarRevoked   EventKind = "star.revoked"
	EventReloaded      EventKind = "ledger.reloaded"
	EventPersistFailed EventKind = "persist.failed"
)

// Event describes one accepted change (or a failed write).
// People and Stars are the totals after the change.
type Event struct {
	Kind     EventKind
	PersonID string
	Action   *models.StarAction
	People   int
	Stars    int
	Err      error
}

// Listener receives ledger events. Listeners run synchronously after the
// store lock is released and must not block.
type Listener func(Event)
