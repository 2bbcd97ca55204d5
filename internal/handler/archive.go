package handler

import (
	"fmt"
	"net/http"

	"github.com/contech-dc/contrack/internal/audit"
	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/request"
)

// ArchiveHandler handles archive moves and archive listings.
type ArchiveHandler struct {
	svc      *request.Service
	auditLog *audit.Logger
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(svc *request.Service, auditLog *audit.Logger) *ArchiveHandler {
	return &ArchiveHandler{svc: svc, auditLog: auditLog}
}

// ArchiveRequest is the request body for archiving or unarchiving.
type ArchiveRequest struct {
	IRNo       string `json:"irNo"`
	IsRevision bool   `json:"isRevision"`
	Role       string `json:"role"`
}

// Archive moves a record into the archive collection for its kind.
func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var body ArchiveRequest
	if !decodeBody(w, r, &body) {
		return
	}

	archivedAt, err := h.svc.Archive(r.Context(), body.IRNo, body.IsRevision, body.Role)
	if err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("%s not found", body.IRNo),
			"failed to archive")
		return
	}

	h.auditLog.Log(body.Role, "archive", body.IRNo, map[string]any{"isRevision": body.IsRevision})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    fmt.Sprintf("%s archived successfully", body.IRNo),
		"archivedAt": archivedAt,
	})
}

// Unarchive restores a record to its active collection.
func (h *ArchiveHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	var body ArchiveRequest
	if !decodeBody(w, r, &body) {
		return
	}

	restored, err := h.svc.Unarchive(r.Context(), body.IRNo, body.IsRevision)
	if err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("%s not found in archive", body.IRNo),
			"failed to unarchive")
		return
	}

	h.auditLog.Log(body.Role, "unarchive", body.IRNo, map[string]any{"isRevision": body.IsRevision})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%s restored successfully", body.IRNo),
		"item":    restored,
	})
}

// archiveItem wraps a record with the flag clients use to route it back
// to the right collection.
type archiveItem struct {
	Record     any  `json:"record"`
	IsRevision bool `json:"isRevision"`
}

func mergeArchive(irs []domain.Request, revs []domain.Revision) []archiveItem {
	items := make([]archiveItem, 0, len(irs)+len(revs))
	for _, ir := range irs {
		items = append(items, archiveItem{Record: ir, IsRevision: false})
	}
	for _, rev := range revs {
		items = append(items, archiveItem{Record: rev, IsRevision: true})
	}
	return items
}

// ListDC returns the records archived by the document controller.
func (h *ArchiveHandler) ListDC(w http.ResponseWriter, r *http.Request) {
	irs, revs, err := h.svc.ArchivedByDC(r.Context())
	if err != nil {
		writeServiceError(w, err, "archive not found", "failed to load archive")
		return
	}
	items := mergeArchive(irs, revs)
	writeJSON(w, http.StatusOK, map[string]any{
		"archive": items,
		"count":   len(items),
	})
}

// ListEngineer returns engineer-archived records, optionally filtered to
// the user named in the query string.
func (h *ArchiveHandler) ListEngineer(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")

	irs, revs, err := h.svc.ArchivedByEngineer(r.Context(), user)
	if err != nil {
		writeServiceError(w, err, "archive not found", "failed to load archive")
		return
	}
	items := mergeArchive(irs, revs)
	writeJSON(w, http.StatusOK, map[string]any{
		"archive": items,
		"count":   len(items),
	})
}
