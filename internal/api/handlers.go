package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/goldstar/internal/apperr"
	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/models"
	"github.com/starford/goldstar/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	store  *ledger.Store
	events *sse.Broker
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(store *ledger.Store, events *sse.Broker) *Handler {
	return &Handler{store: store, events: events}
}

// ListPeople handles GET /api/people.
//
//	@Summary		List people sorted by a key
//	@Tags			people
//	@Produce		json
//	@Param			sort	query		string	false	"Sort key"	Enums(name, stars, dateAdded, lastStarDate)
//	@Param			order	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200		{object}	PeopleResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/people [get]
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	view := h.store.View()
	q := r.URL.Query()
	if s := q.Get("sort"); s != "" {
		by, err := models.ParseSortBy(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		view.By = by
	}
	if s := q.Get("order"); s != "" {
		order, err := models.ParseSortOrder(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		view.Order = order
	}
	writeJSON(w, http.StatusOK, PeopleResponse{
		People: h.store.SortedPeople(view.By, view.Order),
		View:   view,
	})
}

// AddPerson handles POST /api/people.
//
//	@Summary		Add a person with zero stars
//	@Tags			people
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddPersonRequest	true	"Person to add"
//	@Success		201		{object}	AddPersonResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/people [post]
func (h *Handler) AddPerson(w http.ResponseWriter, r *http.Request) {
	var req AddPersonRequest
	if err := readJSON(w, r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	id, err := h.store.AddPerson(req.Name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidName) {
			writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		} else {
			slog.Error("add person failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	p, _ := h.store.Person(id)
	writeJSON(w, http.StatusCreated, AddPersonResponse{ID: id, Person: p})
}

// GetPerson handles GET /api/people/{id}.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.store.Person(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, PersonDetail{Person: p, Actions: h.store.ActionsFor(id)})
}

// RemovePerson handles DELETE /api/people/{id}. The person's actions are removed too.
func (h *Handler) RemovePerson(w http.ResponseWriter, r *http.Request) {
	if !h.store.RemovePerson(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GrantStar handles POST /api/people/{id}/stars.
//
//	@Summary		Grant one star
//	@Tags			stars
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Person id"
//	@Param			body	body		StarRequest	false	"Optional reason"
//	@Success		200		{object}	StarResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/people/{id}/stars [post]
func (h *Handler) GrantStar(w http.ResponseWriter, r *http.Request) {
	h.star(w, r, h.store.GrantStar)
}

// RevokeStar handles DELETE /api/people/{id}/stars. Revoking from zero
// answers 200 with applied=false.
func (h *Handler) RevokeStar(w http.ResponseWriter, r *http.Request) {
	h.star(w, r, h.store.RevokeStar)
}

func (h *Handler) star(w http.ResponseWriter, r *http.Request, apply func(id, reason string) ledger.Outcome) {
	id := chi.URLParam(r, "id")
	var req StarRequest
	if err := readJSON(w, r, &req, true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	outcome := apply(id, req.Reason)
	if outcome == ledger.UnknownPerson {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	p, _ := h.store.Person(id)
	writeJSON(w, http.StatusOK, StarResponse{
		Outcome: outcome.String(),
		Applied: outcome == ledger.Applied,
		Person:  p,
	})
}

// ListActions handles GET /api/actions. An optional person_id narrows the log.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	var actions []models.StarAction
	if id := r.URL.Query().Get("person_id"); id != "" {
		actions = h.store.ActionsFor(id)
	} else {
		actions = h.store.Actions()
	}
	writeJSON(w, http.StatusOK, ActionsResponse{Actions: actions})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse(h.store.Stats()))
}

// GetView handles GET /api/view.
func (h *Handler) GetView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.View())
}

// ToggleSort handles POST /api/view/sort.
func (h *Handler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	var req ToggleSortRequest
	if err := readJSON(w, r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	by, err := models.ParseSortBy(req.SortBy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	view := h.store.ToggleSort(by)
	if h.events != nil {
		h.events.Publish(sse.Event{Type: "view.changed", Data: view})
	}
	writeJSON(w, http.StatusOK, view)
}
