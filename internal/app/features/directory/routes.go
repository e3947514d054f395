// internal/app/features/directory/routes.go
package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the directory under its parent path (usually /directory).
// upload wraps the photo upload route, typically with a rate limiter; it
// may be nil.
func Routes(h *Handler, upload func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePage)
	r.Get("/table", h.HandleCriteria)
	r.Post("/detail/close", h.HandleDetailClose)

	r.Get("/new", h.ServeNew)
	r.Post("/form", h.HandleSubmit)
	r.Post("/form/close", h.HandleFormClose)
	r.Group(func(r chi.Router) {
		if upload != nil {
			r.Use(upload)
		}
		r.Post("/form/photo", h.HandlePhoto)
	})

	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Get("/{id}/delete", h.ServeDeleteConfirm)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
