package handler

import (
	"fmt"
	"net/http"

	"github.com/contech-dc/contrack/internal/audit"
	"github.com/contech-dc/contrack/internal/request"
)

// RevisionHandler handles revision records.
type RevisionHandler struct {
	svc      *request.Service
	auditLog *audit.Logger
}

// NewRevisionHandler creates a new RevisionHandler.
func NewRevisionHandler(svc *request.Service, auditLog *audit.Logger) *RevisionHandler {
	return &RevisionHandler{svc: svc, auditLog: auditLog}
}

// List returns every active revision.
func (h *RevisionHandler) List(w http.ResponseWriter, r *http.Request) {
	revs, err := h.svc.ListRevisions(r.Context())
	if err != nil {
		writeServiceError(w, err, "revisions not found", "failed to load revisions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revs": revs})
}

// CreateRevisionBody is the request body for creating a revision.
type CreateRevisionBody struct {
	Project           string `json:"project"`
	RevText           string `json:"revText"`
	RevNote           string `json:"revNote"`
	RevisionType      string `json:"revisionType"`
	ParentRequestType string `json:"parentRequestType"`
	Department        string `json:"department"`
	User              string `json:"user"`
}

// Create creates a revision with the next number in its (project, kind)
// sequence.
func (h *RevisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateRevisionBody
	if !decodeBody(w, r, &body) {
		return
	}

	rev, err := h.svc.CreateRevision(r.Context(), request.CreateRevisionInput{
		Project:           body.Project,
		RevText:           body.RevText,
		RevNote:           body.RevNote,
		RevisionType:      body.RevisionType,
		ParentRequestType: body.ParentRequestType,
		Department:        body.Department,
		User:              body.User,
	})
	if err != nil {
		writeServiceError(w, err, "project not found", "failed to create revision")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"rev":     rev,
		"message": fmt.Sprintf("%s created successfully", rev.RevisionType),
	})
}

// MarkDone flags a revision as completed. The body carries the revision
// number in irNo, as the original clients send it.
func (h *RevisionHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	var body MarkDoneRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.svc.MarkRevisionDone(r.Context(), body.IRNo); err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("Revision %s not found", body.IRNo),
			"failed to mark revision as done")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Revision %s marked as done", body.IRNo),
	})
}

// DeleteRevisionRequest is the request body for deleting a revision.
type DeleteRevisionRequest struct {
	RevNo string `json:"revNo"`
	Role  string `json:"role"`
}

// Delete removes a revision, probing the archive first.
func (h *RevisionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body DeleteRevisionRequest
	if !decodeBody(w, r, &body) {
		return
	}

	deletedFrom, err := h.svc.Delete(r.Context(), body.RevNo, true)
	if err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("Revision %s not found", body.RevNo),
			"failed to delete revision")
		return
	}

	h.auditLog.Log(body.Role, "rev.delete", body.RevNo, map[string]any{"deletedFrom": deletedFrom})
	message := fmt.Sprintf("Revision %s deleted", body.RevNo)
	if deletedFrom == request.DeletedFromArchive {
		message = fmt.Sprintf("Revision %s deleted from archive", body.RevNo)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     message,
		"deletedFrom": deletedFrom,
	})
}
