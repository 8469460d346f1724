package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/liarsdice-go/internal/metrics"
	basemiddleware "github.com/mcoot/liarsdice-go/internal/middleware"
)

// Metrics counts requests by route template so game ids do not blow up
// label cardinality
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := basemiddleware.WrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, routeTemplate(r), strconv.Itoa(wrapped.Status())).Inc()
	})
}

// routeTemplate names the matched mux route, e.g. /api/v1/games/{id}
func routeTemplate(r *http.Request) string {
	if current := mux.CurrentRoute(r); current != nil {
		if tmpl, err := current.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
