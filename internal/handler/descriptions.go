package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/contech-dc/contrack/internal/request"
)

// DescriptionHandler serves the reference description sets used to fill
// request forms.
type DescriptionHandler struct {
	svc *request.Service
}

// NewDescriptionHandler creates a new DescriptionHandler.
func NewDescriptionHandler(svc *request.Service) *DescriptionHandler {
	return &DescriptionHandler{svc: svc}
}

// Get returns the description set for the department and request type in
// the query string. A missing document reports which storage key was
// consulted so seeding gaps are easy to spot.
func (h *DescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dept := q.Get("department")
	requestType := q.Get("requestType")

	set, docName, err := h.svc.Descriptions(r.Context(), dept, requestType)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error": fmt.Sprintf("no descriptions found for %s", docName),
				"debug_info": map[string]any{
					"department":  dept,
					"requestType": requestType,
					"document":    docName,
				},
			})
			return
		}
		writeServiceError(w, err, "descriptions not found", "failed to load descriptions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"base":     set.Base,
		"floors":   set.Floors,
		"elements": set.Elements,
		"grades":   set.Grades,
	})
}
