package handler

import (
	"net/http"

	"github.com/contech-dc/contrack/internal/request"
)

// ProjectHandler serves project and location reference data.
type ProjectHandler struct {
	svc *request.Service
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *request.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List returns all projects keyed by name, counters included.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		writeServiceError(w, err, "projects not found", "failed to load projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// Locations returns the location patterns for the project named in the
// query string.
func (h *ProjectHandler) Locations(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")

	locations, typesMap, err := h.svc.Locations(r.Context(), project)
	if err != nil {
		writeServiceError(w, err, "project not found", "failed to load locations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locations": locations,
		"types_map": typesMap,
	})
}

// ByUserAndDept returns the active requests and revisions for one user in
// one department.
func (h *ProjectHandler) ByUserAndDept(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	irs, revs, err := h.svc.ByUserAndDept(r.Context(), q.Get("user"), q.Get("department"))
	if err != nil {
		writeServiceError(w, err, "records not found", "failed to load records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"irs":  irs,
		"revs": revs,
	})
}
