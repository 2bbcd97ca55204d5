package handler

import (
	"net/http"

	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// Version is reported by the health endpoint.
const Version = "2.2"

// HealthHandler reports service liveness and store connectivity.
type HealthHandler struct {
	store store.Store
	clock *timefmt.Clock
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(st store.Store, clock *timefmt.Clock) *HealthHandler {
	return &HealthHandler{store: st, clock: clock}
}

// Health returns status, the feature set, and the store connection state.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "connected"
	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "disconnected"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"version":   Version,
		"database":  dbStatus,
		"timestamp": h.clock.Stamp(),
		"features": map[string]bool{
			"requests":       true,
			"revisions":      true,
			"archive":        true,
			"wordGeneration": true,
			"userManagement": true,
		},
	})
}
