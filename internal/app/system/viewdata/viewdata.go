// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all page view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	Title       string
	BackURL     string
	CurrentPath string

	// CSRFToken is sent back by forms and by HTMX (as X-CSRF-Token).
	// Empty when the CSRF middleware is not installed.
	CSRFToken string
}

// NewBaseVM fills the page context from the request.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	return BaseVM{
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}
