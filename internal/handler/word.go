package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/docgen"
	"github.com/contech-dc/contrack/internal/request"
)

// WordHandler generates filled Word documents for download.
type WordHandler struct {
	svc *request.Service
	gen *docgen.Generator
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(svc *request.Service, gen *docgen.Generator) *WordHandler {
	return &WordHandler{svc: svc, gen: gen}
}

// GenerateWordRequest is the request body for a document download.
type GenerateWordRequest struct {
	Project        string `json:"project"`
	Department     string `json:"department"`
	RequestType    string `json:"requestType"`
	Desc           string `json:"desc"`
	IRNo           string `json:"irNo"`
	OldIRNo        string `json:"oldIrNo"`
	DownloadedBy   string `json:"downloadedBy"`
	ConcreteGrade  string `json:"concreteGrade"`
	PouringElement string `json:"pouringElement"`
	Floor          string `json:"floor"`
}

// Generate fills the template for the request's department and streams
// the .docx back as an attachment named after the full identifier.
func (h *WordHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateWordRequest
	if !decodeBody(w, r, &body) {
		return
	}

	full, short, err := h.svc.PrepareWord(r.Context(), request.WordInput{
		Project:        body.Project,
		Department:     body.Department,
		RequestType:    body.RequestType,
		Desc:           body.Desc,
		IRNo:           body.IRNo,
		OldIRNo:        body.OldIRNo,
		DownloadedBy:   body.DownloadedBy,
		ConcreteGrade:  body.ConcreteGrade,
		PouringElement: body.PouringElement,
		Floor:          body.Floor,
	})
	if err != nil {
		writeServiceError(w, err, "record not found", "failed to prepare document")
		return
	}

	deptCode := department.CodeFor(body.Department)
	doc, err := h.gen.Generate(deptCode, docgen.Params{
		IRNoFull:       full,
		IRNoShort:      short,
		Project:        body.Project,
		Department:     body.Department,
		Desc:           body.Desc,
		RequestType:    body.RequestType,
		DownloadedBy:   body.DownloadedBy,
		ConcreteGrade:  body.ConcreteGrade,
		PouringElement: body.PouringElement,
		Floor:          body.Floor,
		Date:           h.svc.Clock().Date(),
	})
	if err != nil {
		var renderErr *docgen.RenderError
		switch {
		case errors.Is(err, docgen.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "no Word template available")
		case errors.As(err, &renderErr):
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("failed to render template %s", renderErr.Template))
		default:
			writeError(w, http.StatusInternalServerError, "failed to generate document")
		}
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.docx"`, full))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
