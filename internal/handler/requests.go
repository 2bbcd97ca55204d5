package handler

import (
	"fmt"
	"net/http"

	"github.com/contech-dc/contrack/internal/audit"
	"github.com/contech-dc/contrack/internal/request"
)

// RequestHandler handles inspection and concrete pouring requests.
type RequestHandler struct {
	svc      *request.Service
	auditLog *audit.Logger
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(svc *request.Service, auditLog *audit.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, auditLog: auditLog}
}

// List returns every active request.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	irs, err := h.svc.ListRequests(r.Context())
	if err != nil {
		writeServiceError(w, err, "requests not found", "failed to load IRS")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"irs": irs})
}

// CreateRequestBody is the request body for creating an IR or CPR.
type CreateRequestBody struct {
	Project        string         `json:"project"`
	Department     string         `json:"department"`
	User           string         `json:"user"`
	Desc           string         `json:"desc"`
	Location       string         `json:"location"`
	Floor          string         `json:"floor"`
	RequestType    string         `json:"requestType"`
	Tags           map[string]any `json:"tags"`
	EngineerNote   string         `json:"engineerNote"`
	SDNote         string         `json:"sdNote"`
	ConcreteGrade  string         `json:"concreteGrade"`
	PouringElement string         `json:"pouringElement"`
}

// Create creates a new request, assigning the next identifier in the
// project's scope.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	ir, serial, err := h.svc.CreateRequest(r.Context(), request.CreateRequestInput{
		Project:        body.Project,
		Department:     body.Department,
		User:           body.User,
		Desc:           body.Desc,
		Location:       body.Location,
		Floor:          body.Floor,
		RequestType:    body.RequestType,
		Tags:           body.Tags,
		EngineerNote:   body.EngineerNote,
		SDNote:         body.SDNote,
		ConcreteGrade:  body.ConcreteGrade,
		PouringElement: body.PouringElement,
	})
	if err != nil {
		writeServiceError(w, err, "project not found", "failed to create IR")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"ir":      ir,
		"message": fmt.Sprintf("%s created successfully", ir.RequestType),
		"counter": serial,
	})
}

// MarkDoneRequest is the request body for marking a record as done.
type MarkDoneRequest struct {
	IRNo         string `json:"irNo"`
	DownloadedBy string `json:"downloadedBy"`
}

// MarkDone flags a request as completed.
func (h *RequestHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	var body MarkDoneRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.svc.MarkRequestDone(r.Context(), body.IRNo, body.DownloadedBy); err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("IR %s not found", body.IRNo),
			"failed to mark IR as done")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("IR %s marked as done", body.IRNo),
	})
}

// RenumberRequest is the request body for moving a request to a new
// serial.
type RenumberRequest struct {
	IRNo        string `json:"irNo"`
	NewSerial   int    `json:"newSerial"`
	Project     string `json:"project"`
	Department  string `json:"department"`
	RequestType string `json:"requestType"`
}

// Renumber rewrites a request under the identifier built from the target
// serial and floors the project counter at that serial.
func (h *RequestHandler) Renumber(w http.ResponseWriter, r *http.Request) {
	var body RenumberRequest
	if !decodeBody(w, r, &body) {
		return
	}

	newNo, err := h.svc.Renumber(r.Context(), request.RenumberInput{
		IRNo:        body.IRNo,
		NewSerial:   body.NewSerial,
		Project:     body.Project,
		Department:  body.Department,
		RequestType: body.RequestType,
	})
	if err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("IR %s not found", body.IRNo),
			"failed to update IR number")
		return
	}

	h.auditLog.Log(body.Project, "ir.renumber", body.IRNo, map[string]any{"newIrNo": newNo})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"oldIrNo": body.IRNo,
		"newIrNo": newNo,
		"message": "IR number updated successfully",
	})
}

// DeleteRequest is the request body for deleting a request.
type DeleteRequest struct {
	IRNo string `json:"irNo"`
	Role string `json:"role"`
}

// Delete removes a request from whichever collection holds it, archive
// first.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body DeleteRequest
	if !decodeBody(w, r, &body) {
		return
	}

	deletedFrom, err := h.svc.Delete(r.Context(), body.IRNo, false)
	if err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("IR %s not found", body.IRNo),
			"failed to delete IR")
		return
	}

	h.auditLog.Log(body.Role, "ir.delete", body.IRNo, map[string]any{"deletedFrom": deletedFrom})
	message := fmt.Sprintf("IR %s deleted", body.IRNo)
	if deletedFrom == request.DeletedFromArchive {
		message = fmt.Sprintf("IR %s deleted from archive", body.IRNo)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     message,
		"deletedFrom": deletedFrom,
	})
}
