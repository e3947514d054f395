// internal/app/features/errors/render.go
package errors

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderServerError shows a friendly error page with status 500.
// If backURL is empty, the request's back URL is used with "/" as fallback.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderStatus(w, r, http.StatusInternalServerError, "Something went wrong", msg, backURL)
}

// RenderBadRequest shows a friendly error page with status 400.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderStatus(w, r, http.StatusBadRequest, "Bad request", msg, backURL)
}

// RenderNotFound shows a friendly error page with status 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderStatus(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	base := viewdata.NewBaseVM(r, title, "/")
	if backURL != "" {
		base.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{BaseVM: base, Message: msg})
}

// noticeFragment is swapped into the page's notice area for HTMX requests.
const noticeFragment = `<div class="notice notice-error" role="alert">%s</div>`

// RenderHTMXNotice answers an HTMX request with an error notice retargeted
// at the #notice region. HTMX only swaps 2xx responses, so the status is 200.
func RenderHTMXNotice(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("HX-Retarget", "#notice")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, noticeFragment, template.HTMLEscapeString(msg))
}
