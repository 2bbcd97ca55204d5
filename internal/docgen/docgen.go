// Package docgen fills the Word request templates for download. Template
// choice follows the department code; mechanical work and all CPRs print
// on the structural template.
package docgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	docx "github.com/lukasjarosch/go-docx"

	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/identifier"
)

// ErrTemplateNotFound is returned when no usable template file exists.
var ErrTemplateNotFound = errors.New("template not found")

// RenderError reports a template fill that failed even after the
// reduced-context retry.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string { return "render " + e.Template + ": " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// Renderer fills a .docx template with a placeholder map.
type Renderer interface {
	Render(templatePath string, fields map[string]any, w io.Writer) error
}

// DocxRenderer renders via go-docx placeholder replacement.
type DocxRenderer struct{}

func (DocxRenderer) Render(templatePath string, fields map[string]any, w io.Writer) error {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return err
	}
	if err := doc.ReplaceAll(docx.PlaceholderMap(fields)); err != nil {
		return err
	}
	return doc.Write(w)
}

// Params carries everything a generated document can print.
type Params struct {
	IRNoFull       string
	IRNoShort      string
	Project        string
	Department     string
	Desc           string
	RequestType    string
	DownloadedBy   string
	ConcreteGrade  string
	PouringElement string
	Floor          string
	Date           string
}

// Generator selects templates under TemplatesDir and renders them.
type Generator struct {
	TemplatesDir string
	Renderer     Renderer
}

// TemplateFor maps a department code and request kind to a template file
// name.
func TemplateFor(deptCode, requestType string) string {
	if requestType == identifier.KindCPR {
		return "ST.docx"
	}
	switch deptCode {
	case department.CodeArch:
		return "ARCH.docx"
	case department.CodeStruct, department.CodeMech:
		return "ST.docx"
	case department.CodeSurv:
		return "SURV.docx"
	case department.CodeElect:
		return "ELECT.docx"
	default:
		return "ARCH.docx"
	}
}

// Generate renders the document for the given params and returns the
// .docx bytes. A render failure is retried once with the reduced field
// set before a RenderError propagates.
func (g *Generator) Generate(deptCode string, p Params) ([]byte, error) {
	name := TemplateFor(deptCode, strings.ToUpper(p.RequestType))
	path, err := g.resolveTemplate(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.Renderer.Render(path, fullContext(p), &buf); err == nil {
		return buf.Bytes(), nil
	}

	buf.Reset()
	if err := g.Renderer.Render(path, minimalContext(p), &buf); err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}
	return buf.Bytes(), nil
}

// resolveTemplate finds the named template, falling back to any .docx in
// the templates directory when the exact file is missing.
func (g *Generator) resolveTemplate(name string) (string, error) {
	path := filepath.Join(g.TemplatesDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	entries, err := os.ReadDir(g.TemplatesDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".docx") {
			return filepath.Join(g.TemplatesDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// DisplayType is the request type heading printed on the document.
func DisplayType(requestType string) string {
	if strings.ToUpper(requestType) == identifier.KindCPR {
		return "CONCRETE POURING REQUEST (CPR)"
	}
	return "INSPECTION REQUEST (IR)"
}

func fullContext(p Params) map[string]any {
	ctx := map[string]any{
		"IRNo":         p.IRNoFull,
		"IRNoShort":    p.IRNoShort,
		"ProjectName":  p.Project,
		"Description":  p.Desc,
		"ReceivedDate": p.Date,
		"requestType":  DisplayType(p.RequestType),
		"CurrentDate":  p.Date,
		"TodayDate":    p.Date,
		"Department":   p.Department,
		"DownloadedBy": p.DownloadedBy,
	}
	if strings.ToUpper(p.RequestType) == identifier.KindCPR {
		if p.ConcreteGrade != "" {
			ctx["ConcreteGrade"] = p.ConcreteGrade
		}
		if p.PouringElement != "" {
			ctx["PouringElement"] = p.PouringElement
		}
		if p.Floor != "" {
			ctx["Floor"] = p.Floor
		}
	}
	return ctx
}

func minimalContext(p Params) map[string]any {
	return map[string]any{
		"IRNo":         p.IRNoFull,
		"ProjectName":  p.Project,
		"Description":  p.Desc,
		"ReceivedDate": p.Date,
		"requestType":  DisplayType(p.RequestType),
	}
}
