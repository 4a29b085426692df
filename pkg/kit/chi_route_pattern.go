package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UnmatchedRoute labels requests that no route matched.
const UnmatchedRoute = "unmatched"

// ChiRoutePattern returns the matched route pattern, or UnmatchedRoute, so
// metric label cardinality stays bounded by the route table.
func ChiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if rp := rctx.RoutePattern(); rp != "" {
			return rp
		}
	}
	return UnmatchedRoute
}
