package views

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route maps a path pattern to a view. When Props is set the pattern's
// parameters are passed to the view.
type Route struct {
	Path  string
	View  ViewName
	Props bool
}

// Routes returns the route table in match order.
func Routes() []Route {
	return []Route{
		{Path: "/", View: ViewDashboard},
		{Path: "/operadoras", View: ViewOperadoraList},
		{Path: "/operadoras/{id}", View: ViewOperadoraDetail, Props: true},
	}
}

// Mount registers routes on r. Every route must name a view present in views.
func Mount(r chi.Router, routes []Route, views map[ViewName]View) error {
	for _, rt := range routes {
		view, ok := views[rt.View]
		if !ok || view == nil {
			return fmt.Errorf("views: route %s names unknown view %q", rt.Path, rt.View)
		}
		r.Get(rt.Path, handler(view, rt.Props))
	}
	return nil
}

func handler(view View, props bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := Params{}
		if rctx := chi.RouteContext(r.Context()); props && rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if key == "" || key == "*" {
					continue
				}
				params[key] = rctx.URLParams.Values[i]
			}
		}
		if err := view.Render(w, r, params); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
