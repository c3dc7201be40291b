package ledger

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goldstar/internal/apperr"
	"github.com/starford/goldstar/internal/models"
)

// snapshotWire distinguishes a missing array from an empty one.
type snapshotWire struct {
	People  *[]models.Person     `json:"people"`
	Actions *[]models.StarAction `json:"actions"`
}

// Encode serializes a snapshot to its persisted JSON form.
// Nil collections are written as empty arrays.
func Encode(snap models.Snapshot) ([]byte, error) {
	if snap.People == nil {
		snap.People = []models.Person{}
	}
	if snap.Actions == nil {
		snap.Actions = []models.StarAction{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted snapshot. Any structural problem yields an
// error wrapping apperr.ErrMalformed.
func Decode(data []byte) (models.Snapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", apperr.ErrMalformed, err)
	}
	if w.People == nil || w.Actions == nil {
		return models.Snapshot{}, fmt.Errorf("%w: people and actions are required", apperr.ErrMalformed)
	}

	snap := models.Snapshot{People: *w.People, Actions: *w.Actions}
	seen := make(map[string]struct{}, len(snap.People))
	for i := range snap.People {
		p := &snap.People[i]
		if err := validatePerson(p); err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: people[%d]: %v", apperr.ErrMalformed, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return models.Snapshot{}, fmt.Errorf("%w: duplicate person id %q", apperr.ErrMalformed, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	for i := range snap.Actions {
		if err := validateAction(&snap.Actions[i]); err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: actions[%d]: %v", apperr.ErrMalformed, i, err)
		}
	}
	return snap, nil
}

func validatePerson(p *models.Person) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Stars, validation.Min(0)),
		validation.Field(&p.DateAdded, validation.Required),
	)
}

func validateAction(a *models.StarAction) error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.PersonID, validation.Required),
		validation.Field(&a.Kind, validation.Required, validation.In(models.ActionGrant, models.ActionRevoke)),
		validation.Field(&a.Timestamp, validation.Required),
	)
}
