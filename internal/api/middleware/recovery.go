package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mcoot/liarsdice-go/internal/api/apierr"
	"github.com/mcoot/liarsdice-go/internal/metrics"
)

// Recovery turns a panicking handler into a 500 with the standard JSON
// error body. The panic is logged with its stack and counted per route.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				route := routeTemplate(r)
				metrics.HandlerPanics.WithLabelValues(route).Inc()
				logger.Error("handler panicked",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("route", route),
					slog.String("stack", string(debug.Stack())),
				)
				apierr.WriteError(w, apierr.NewInternalError())
			}()

			next.ServeHTTP(w, r)
		})
	}
}
