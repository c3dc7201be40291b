package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, is mounted at GET /events inside the auth group and
// receives view.changed notifications.
func NewRouter(store *ledger.Store, authEnabled bool, token string, events *sse.Broker) chi.Router {
	h := NewHandler(store, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// People.
	r.Get("/people", h.ListPeople)
	r.Post("/people", h.AddPerson)
	r.Get("/people/{id}", h.GetPerson)
	r.Delete("/people/{id}", h.RemovePerson)

	// Stars.
	r.Post("/people/{id}/stars", h.GrantStar)
	r.Delete("/people/{id}/stars", h.RevokeStar)

	// Audit log and summary.
	r.Get("/actions", h.ListActions)
	r.Get("/stats", h.Stats)

	// Table view state.
	r.Get("/view", h.GetView)
	r.Post("/view/sort", h.ToggleSort)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
