package docgen

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/identifier"
)

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		name        string
		deptCode    string
		requestType string
		want        string
	}{
		{"arch", department.CodeArch, identifier.KindIR, "ARCH.docx"},
		{"structural", department.CodeStruct, identifier.KindIR, "ST.docx"},
		{"mechanical prints on structural", department.CodeMech, identifier.KindIR, "ST.docx"},
		{"electrical", department.CodeElect, identifier.KindIR, "ELECT.docx"},
		{"survey", department.CodeSurv, identifier.KindIR, "SURV.docx"},
		{"cpr always structural", department.CodeArch, identifier.KindCPR, "ST.docx"},
		{"unknown falls back to arch", "XX", identifier.KindIR, "ARCH.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemplateFor(tt.deptCode, tt.requestType); got != tt.want {
				t.Errorf("TemplateFor(%q, %q) = %q, want %q", tt.deptCode, tt.requestType, got, tt.want)
			}
		})
	}
}

func TestDisplayType(t *testing.T) {
	assert.Equal(t, "CONCRETE POURING REQUEST (CPR)", DisplayType("cpr"))
	assert.Equal(t, "INSPECTION REQUEST (IR)", DisplayType(identifier.KindIR))
	assert.Equal(t, "INSPECTION REQUEST (IR)", DisplayType(""))
}

// fakeRenderer records the fields of each render call and can be told to
// fail a number of times.
type fakeRenderer struct {
	failures int
	calls    []map[string]any
}

func (f *fakeRenderer) Render(templatePath string, fields map[string]any, w io.Writer) error {
	f.calls = append(f.calls, fields)
	if f.failures > 0 {
		f.failures--
		return errors.New("unfilled placeholder")
	}
	_, err := w.Write([]byte("docx-bytes"))
	return err
}

func templatesDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
	}
	return dir
}

func TestGenerate(t *testing.T) {
	dir := templatesDir(t, "ARCH.docx", "ST.docx")
	r := &fakeRenderer{}
	g := &Generator{TemplatesDir: dir, Renderer: r}

	out, err := g.Generate(department.CodeArch, Params{
		IRNoFull:    "BADYA-CON-P5-IR-ARCH-001",
		IRNoShort:   "001",
		Project:     "P5",
		Desc:        "Wall plaster",
		RequestType: identifier.KindIR,
		Date:        "17 Mar 2025",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("docx-bytes"), out)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "BADYA-CON-P5-IR-ARCH-001", r.calls[0]["IRNo"])
	assert.Equal(t, "INSPECTION REQUEST (IR)", r.calls[0]["requestType"])
}

func TestGenerateRetriesWithMinimalContext(t *testing.T) {
	dir := templatesDir(t, "ST.docx")
	r := &fakeRenderer{failures: 1}
	g := &Generator{TemplatesDir: dir, Renderer: r}

	out, err := g.Generate(department.CodeStruct, Params{
		IRNoFull:    "BADYA-CON-P5-CPR-001",
		Project:     "P5",
		RequestType: identifier.KindCPR,
		Floor:       "Basement",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("docx-bytes"), out)

	// First call carried the full CPR context, the retry the reduced set.
	require.Len(t, r.calls, 2)
	assert.Contains(t, r.calls[0], "Floor")
	assert.NotContains(t, r.calls[1], "Floor")
	assert.Contains(t, r.calls[1], "IRNo")
}

func TestGenerateRenderErrorAfterRetry(t *testing.T) {
	dir := templatesDir(t, "ST.docx")
	r := &fakeRenderer{failures: 2}
	g := &Generator{TemplatesDir: dir, Renderer: r}

	_, err := g.Generate(department.CodeStruct, Params{RequestType: identifier.KindIR})
	require.Error(t, err)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "ST.docx", renderErr.Template)
}

func TestGenerateFallsBackToAnyTemplate(t *testing.T) {
	dir := templatesDir(t, "OTHER.docx")
	r := &fakeRenderer{}
	g := &Generator{TemplatesDir: dir, Renderer: r}

	_, err := g.Generate(department.CodeArch, Params{RequestType: identifier.KindIR})
	require.NoError(t, err)
}

func TestGenerateTemplateNotFound(t *testing.T) {
	dir := templatesDir(t) // empty
	g := &Generator{TemplatesDir: dir, Renderer: &fakeRenderer{}}

	_, err := g.Generate(department.CodeArch, Params{RequestType: identifier.KindIR})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCPRContextOmitsEmptyFields(t *testing.T) {
	p := Params{RequestType: identifier.KindCPR, ConcreteGrade: "C40"}
	ctx := fullContext(p)
	assert.Equal(t, "C40", ctx["ConcreteGrade"])
	assert.NotContains(t, ctx, "PouringElement")
	assert.NotContains(t, ctx, "Floor")
}
