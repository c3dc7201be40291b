package api

import (
	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/models"
)

// AddPersonRequest is the request body for adding a person.
type AddPersonRequest struct {
	Name string `json:"name" example:"Ada" validate:"required"`
}

// AddPersonResponse is returned after a person is created.
type AddPersonResponse struct {
	ID     string        `json:"id" validate:"required"`
	Person models.Person `json:"person" validate:"required"`
}

// StarRequest is the optional body for granting or revoking a star.
type StarRequest struct {
	Reason string `json:"reason,omitempty" example:"Helped with the release"`
}

// StarResponse reports the result of a grant or revoke.
// Applied is false when the request was a no-op (revoking from zero).
type StarResponse struct {
	Outcome string        `json:"outcome" example:"applied" validate:"required"`
	Applied bool          `json:"applied" validate:"required"`
	Person  models.Person `json:"person" validate:"required"`
}

// PersonDetail is a person together with their logged actions.
type PersonDetail struct {
	Person  models.Person       `json:"person" validate:"required"`
	Actions []models.StarAction `json:"actions" validate:"required"`
}

// PeopleResponse wraps a sorted people listing.
type PeopleResponse struct {
	People []models.Person `json:"people" validate:"required"`
	View   ledger.View     `json:"view" validate:"required"`
}

// ActionsResponse wraps the audit log.
type ActionsResponse struct {
	Actions []models.StarAction `json:"actions" validate:"required"`
}

// ToggleSortRequest selects the key to sort by.
type ToggleSortRequest struct {
	SortBy string `json:"sortBy" example:"stars" validate:"required"`
}

// StatsResponse is the summary view.
type StatsResponse = ledger.Summary
