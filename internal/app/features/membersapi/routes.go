// internal/app/features/membersapi/routes.go
package membersapi

import "github.com/go-chi/chi/v5"

// Routes mounts the API (usually at /api/members).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
