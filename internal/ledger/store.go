// Package ledger implements the star ledger: the people collection, the
// audit log of star actions, and a write-through durable mirror of both.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goldstar/internal/apperr"
	"github.com/starford/goldstar/internal/models"
	"github.com/starford/goldstar/internal/storage"
)

// Store owns the people and actions collections. Every accepted mutation
// persists the full snapshot before returning. Persistence failures are
// logged and never roll back the in-memory change.
type Store struct {
	provider  storage.Provider
	key       string
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	listeners []Listener

	mu      sync.RWMutex
	people  []models.Person
	actions []models.StarAction
	view    View
	retired map[string]struct{} // ids of removed people, never reissued
	pending []Event             // queued in lock order, drained by flush

	emitMu sync.Mutex // held by the goroutine delivering pending events
}

// New creates an empty store backed by provider. Call Load to restore
// a previously persisted snapshot.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		key:      DefaultKey,
		logger:   slog.Default(),
		now:      defaultClock,
		newID:    defaultID,
		view:     DefaultView(),
		retired:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores state from the provider. A missing record leaves the store
// empty; unreadable or malformed data is logged and also yields an empty store.
// It reports whether a snapshot was restored.
func (s *Store) Load() bool {
	snap, err := s.read()

	s.mu.Lock()
	s.people, s.actions = nil, nil
	if err == nil {
		s.people, s.actions = snap.People, snap.Actions
	}
	s.pending = append(s.pending, s.eventLocked(EventReloaded, "", nil))
	s.mu.Unlock()

	s.flush()

	switch {
	case err == nil:
		s.logger.Info("ledger: snapshot loaded",
			slog.Int("people", len(snap.People)),
			slog.Int("actions", len(snap.Actions)))
		return true
	case errors.Is(err, apperr.ErrNotFound):
		s.logger.Info("ledger: no snapshot, starting empty")
	default:
		s.logger.Error("ledger: load failed, starting empty", slog.String("error", err.Error()))
	}
	return false
}

func (s *Store) read() (models.Snapshot, error) {
	data, err := s.provider.Load(s.key)
	if err != nil {
		return models.Snapshot{}, err
	}
	return Decode(data)
}

// Reload replaces the in-memory state with a snapshot written by someone
// else. The snapshot is not written back. Malformed data is ignored.
func (s *Store) Reload(data []byte) error {
	snap, err := Decode(data)
	if err != nil {
		s.logger.Warn("ledger: ignoring external snapshot", slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	s.people, s.actions = snap.People, snap.Actions
	s.pending = append(s.pending, s.eventLocked(EventReloaded, "", nil))
	s.mu.Unlock()

	s.logger.Info("ledger: snapshot reloaded", slog.Int("people", len(snap.People)))
	s.flush()
	return nil
}

// AddPerson creates a person with zero stars and returns the new id.
// The name is trimmed; a blank name fails with apperr.ErrInvalidName.
func (s *Store) AddPerson(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required); err != nil {
		return "", fmt.Errorf("%w: name %v", apperr.ErrInvalidName, err)
	}

	s.mu.Lock()
	p := models.Person{
		ID:        s.uniquePersonIDLocked(),
		Name:      name,
		Stars:     0,
		DateAdded: s.now(),
	}
	s.people = append(s.people, p)
	s.persistLocked(s.eventLocked(EventPersonAdded, p.ID, nil))
	s.mu.Unlock()

	s.flush()
	return p.ID, nil
}

// RemovePerson deletes the person and every action that references it.
// It reports whether a person was removed.
func (s *Store) RemovePerson(personID string) bool {
	s.mu.Lock()
	idx := s.indexLocked(personID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("ledger: remove of unknown person", slog.String("person_id", personID))
		return false
	}

	people := make([]models.Person, 0, len(s.people)-1)
	people = append(people, s.people[:idx]...)
	s.people = append(people, s.people[idx+1:]...)

	actions := make([]models.StarAction, 0, len(s.actions))
	for _, a := range s.actions {
		if a.PersonID != personID {
			actions = append(actions, a)
		}
	}
	s.actions = actions
	s.retired[personID] = struct{}{}

	s.persistLocked(s.eventLocked(EventPersonRemoved, personID, nil))
	s.mu.Unlock()

	s.flush()
	return true
}

// GrantStar adds one star to the person and logs a grant action.
// An empty reason is recorded as absent.
func (s *Store) GrantStar(personID, reason string) Outcome {
	return s.applyStar(personID, models.ActionGrant, reason)
}

// RevokeStar removes one star from the person and logs a revoke action.
// Revoking from zero is a no-op reported as NoStars.
func (s *Store) RevokeStar(personID, reason string) Outcome {
	return s.applyStar(personID, models.ActionRevoke, reason)
}

func (s *Store) applyStar(personID string, kind models.ActionKind, reason string) Outcome {
	s.mu.Lock()
	idx := s.indexLocked(personID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("ledger: star for unknown person",
			slog.String("person_id", personID), slog.String("action", kind.Label()))
		return UnknownPerson
	}

	p := &s.people[idx]
	if kind == models.ActionRevoke && p.Stars <= 0 {
		s.mu.Unlock()
		s.logger.Debug("ledger: revoke at zero ignored", slog.String("person_id", personID))
		return NoStars
	}

	now := s.now()
	if kind == models.ActionGrant {
		p.Stars++
	} else {
		p.Stars--
	}
	p.LastStarDate = &now

	action := models.StarAction{
		ID:        s.uniqueActionIDLocked(),
		PersonID:  personID,
		Kind:      kind,
		Timestamp: now,
		Reason:    optionalReason(reason),
	}
	s.actions = append(s.actions, action)

	kindEv := EventStarGranted
	if kind == models.ActionRevoke {
		kindEv = EventStarRevoked
	}
	s.persistLocked(s.eventLocked(kindEv, personID, &action))
	s.mu.Unlock()

	s.flush()
	return Applied
}

// Person returns a copy of the person with the given id.
func (s *Store) Person(personID string) (models.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(personID)
	if idx < 0 {
		return models.Person{}, false
	}
	return s.people[idx], true
}

// People returns a copy of all people in insertion order.
func (s *Store) People() []models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Person{}, s.people...)
}

// Actions returns a copy of the audit log in insertion order.
func (s *Store) Actions() []models.StarAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StarAction{}, s.actions...)
}

// ActionsFor returns the logged actions for one person.
func (s *Store) ActionsFor(personID string) []models.StarAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.StarAction{}
	for _, a := range s.actions {
		if a.PersonID == personID {
			out = append(out, a)
		}
	}
	return out
}

// Snapshot returns a copy of the complete state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		People:  append([]models.Person{}, s.people...),
		Actions: append([]models.StarAction{}, s.actions...),
	}
}

// SortedPeople returns all people ordered by the given key and direction.
func (s *Store) SortedPeople(by models.SortBy, order models.SortOrder) []models.Person {
	return SortPeople(s.People(), by, order)
}

// Sorted returns all people ordered by the current view.
func (s *Store) Sorted() []models.Person {
	v := s.View()
	return s.SortedPeople(v.By, v.Order)
}

// View returns the current sort view.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// ToggleSort updates the current view with View.Toggle and returns it.
func (s *Store) ToggleSort(by models.SortBy) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.Toggle(by)
	return s.view
}

// Stats summarizes the current collections as of now.
func (s *Store) Stats() Summary {
	snap := s.Snapshot()
	return Summarize(snap.People, snap.Actions, s.now())
}

// persistLocked writes the snapshot and queues ev, followed by a
// persist.failed event when the write did not succeed.
func (s *Store) persistLocked(ev Event) {
	s.pending = append(s.pending, ev)

	data, err := Encode(models.Snapshot{People: s.people, Actions: s.actions})
	if err == nil {
		err = s.provider.Save(s.key, data)
	}
	if err == nil {
		return
	}
	s.logger.Error("ledger: persist failed", slog.String("key", s.key), slog.String("error", err.Error()))
	failed := s.eventLocked(EventPersistFailed, ev.PersonID, nil)
	failed.Err = err
	s.pending = append(s.pending, failed)
}

func (s *Store) eventLocked(kind EventKind, personID string, action *models.StarAction) Event {
	stars := 0
	for _, p := range s.people {
		stars += p.Stars
	}
	return Event{
		Kind:     kind,
		PersonID: personID,
		Action:   action,
		People:   len(s.people),
		Stars:    stars,
	}
}

// flush delivers queued events to the listeners in the order they were
// queued. Listeners run without s.mu held, so they may read the store, but
// they must not mutate it. When flush returns, every event queued before
// the call has been delivered.
func (s *Store) flush() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	for {
		s.mu.Lock()
		evs := s.pending
		s.pending = nil
		s.mu.Unlock()
		if len(evs) == 0 {
			return
		}
		for _, ev := range evs {
			for _, l := range s.listeners {
				l(ev)
			}
		}
	}
}

func (s *Store) indexLocked(personID string) int {
	for i := range s.people {
		if s.people[i].ID == personID {
			return i
		}
	}
	return -1
}

// uniquePersonIDLocked never hands out the id of a current or removed
// person, even when the generator repeats itself.
func (s *Store) uniquePersonIDLocked() string {
	for {
		id := s.newID()
		if id == "" || s.indexLocked(id) >= 0 {
			continue
		}
		if _, gone := s.retired[id]; gone {
			continue
		}
		return id
	}
}

func (s *Store) uniqueActionIDLocked() string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		dup := false
		for _, a := range s.actions {
			if a.ID == id {
				dup = true
				break
			}
		}
		if !dup {
			return id
		}
	}
}

func optionalReason(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	return &reason
}
