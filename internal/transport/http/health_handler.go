package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler serves liveness and version endpoints.
type HealthHandler struct {
	logger    *slog.Logger
	version   string
	buildTime string
}

// NewHealthHandler creates a health handler with build information.
func NewHealthHandler(logger *slog.Logger, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		logger:    logger.With(slog.String("component", "health_handler")),
		version:   version,
		buildTime: buildTime,
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
	})
}
