package middleware

import (
	"log/slog"
	"net/http"

	basemiddleware "github.com/mcoot/liarsdice-go/internal/middleware"
)

// Logging logs API requests; health checks only show up at debug level
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return basemiddleware.Logging(logger, "/api/v1/health")
}
