package views

import "net/http"

// ViewName identifies a renderable page.
type ViewName string

const (
	ViewDashboard       ViewName = "dashboard"
	ViewOperadoraList   ViewName = "operadora-list"
	ViewOperadoraDetail ViewName = "operadora-detail"
)

// Params are the route parameters handed to a view as inputs.
type Params map[string]string

// View renders a page.
type View interface {
	Render(w http.ResponseWriter, r *http.Request, params Params) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(w http.ResponseWriter, r *http.Request, params Params) error

// Render calls f.
func (f ViewFunc) Render(w http.ResponseWriter, r *http.Request, params Params) error {
	return f(w, r, params)
}
