package cli

import (
	"bytes"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/utils"
)

func newTestReporter(level utils.DiagnosticLevel) (*DiagnosticReporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	ds := utils.NewDiagnosticSystemWithWriters(level, &out, &errOut)
	return NewDiagnosticReporterFor(ds), &out, &errOut
}

func TestDiagnosticReporter_Report(t *testing.T) {
	anchor := models.SourceLocation{File: "src/Box.rdecl", Line: 3, Column: 5}

	tests := []struct {
		name    string
		level   utils.DiagnosticLevel
		diag    models.Diagnostic
		wantOut string
		wantErr string
	}{
		{
			name:    "note hidden by default",
			level:   utils.DiagnosticInfo,
			diag:    models.Diagnostic{Severity: models.SeverityNote, Message: "starting"},
			wantOut: "",
			wantErr: "",
		},
		{
			name:    "note shown when verbose",
			level:   utils.DiagnosticVerbose,
			diag:    models.Diagnostic{Severity: models.SeverityNote, Message: "starting"},
			wantOut: "NOTE: starting\n",
		},
		{
			name:    "warning with anchor",
			level:   utils.DiagnosticInfo,
			diag:    models.Diagnostic{Severity: models.SeverityWarning, Message: "reserved name", Anchor: anchor},
			wantErr: "WARNING: src/Box.rdecl:3:5: reserved name\n",
		},
		{
			name:  "warning hidden when quiet",
			level: utils.DiagnosticError,
			diag:  models.Diagnostic{Severity: models.SeverityWarning, Message: "reserved name", Anchor: anchor},
		},
		{
			name:    "error shown when quiet",
			level:   utils.DiagnosticError,
			diag:    models.Diagnostic{Severity: models.SeverityError, Message: "no constructor", Anchor: anchor},
			wantErr: "ERROR: src/Box.rdecl:3:5: no constructor\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, errOut := newTestReporter(tt.level)
			r.Report(tt.diag)

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
			assert.Equal(t, 1, r.Count(tt.diag.Severity))
		})
	}
}

func TestDiagnosticReporter_Counts(t *testing.T) {
	r, _, _ := newTestReporter(utils.DiagnosticError)

	r.Report(models.Diagnostic{Severity: models.SeverityWarning, Message: "a"})
	r.Report(models.Diagnostic{Severity: models.SeverityWarning, Message: "b"})
	r.Report(models.Diagnostic{Severity: models.SeverityError, Message: "c"})

	assert.Equal(t, 2, r.Count(models.SeverityWarning))
	assert.Equal(t, 1, r.Count(models.SeverityError))
	assert.Equal(t, 0, r.Count(models.SeverityNote))

	r.ResetCounts()
	assert.Equal(t, 0, r.Count(models.SeverityWarning))
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	method := models.MethodSignature{
		Name:     "newT",
		Params:   []models.Parameter{{Name: "size", Type: models.Primitive("int")}},
		Return:   models.TypeVariable("T"),
		Location: models.SourceLocation{File: "src/Box.rdecl", Line: 4, Column: 3},
	}
	err := errors.NewConstructorResolutionError(models.Declared("com.example.Widget"), method)

	r, _, errOut := newTestReporter(utils.DiagnosticInfo)
	r.ReportError(err)

	output := errOut.String()
	assert.Contains(t, output, "ERROR: Code Generation Failed")
	assert.Contains(t, output, "Type: Constructor Resolution Failure")
	assert.Contains(t, output, "Message: could not resolve constructor of type 'com.example.Widget' with parameters (int)")
	assert.Contains(t, output, "Location: src/Box.rdecl:4:3")
	assert.Contains(t, output, "   Type: com.example.Widget")
	assert.Contains(t, output, "   Function Name: newT")
	assert.Contains(t, output, "Suggestions:\n   1. Declare a constructor Widget(int)")
	assert.NotContains(t, output, "Error Chain:")
}

func TestDiagnosticReporter_ReportErrorMultiple(t *testing.T) {
	collected := errors.NewMultipleErrors()
	collected.Add(errors.NewSyntaxError("unexpected token"))
	collected.Add(errors.NewConstraintError("version", "is required"))

	r, _, errOut := newTestReporter(utils.DiagnosticVerbose)
	r.ReportError(collected)

	output := errOut.String()
	assert.Contains(t, output, "Found 2 errors: Syntax Error (1), Validation Error (1)")
	assert.Contains(t, output, "Type: Syntax Error")
	assert.Contains(t, output, "Type: Validation Error")
	assert.Contains(t, output, "Error Chain:\n    1. multiple errors (2 total)")
}

func TestDiagnosticReporter_ReportErrorBreakdown(t *testing.T) {
	collected := errors.NewMultipleErrors()
	collected.Add(errors.New(errors.GenerationErrorCode, "render failed"))
	collected.Add(errors.NewSyntaxError("unexpected token"))
	collected.Add(errors.New(errors.TemplateErrorCode, "bad template"))

	r, _, errOut := newTestReporter(utils.DiagnosticInfo)
	r.ReportError(collected)

	assert.Contains(t, errOut.String(), "Found 3 errors: Syntax Error (1), Code Generation Error (2)\n")
}

func TestDiagnosticReporter_ReportErrorSingleHasNoBreakdown(t *testing.T) {
	r, _, errOut := newTestReporter(utils.DiagnosticInfo)
	r.ReportError(errors.NewSyntaxError("unexpected token"))

	assert.NotContains(t, errOut.String(), "Found")
}

func TestDiagnosticReporter_ReportErrorHints(t *testing.T) {
	err := cerrors.WithHint(cerrors.New("disk full"), "Free some space")

	r, _, errOut := newTestReporter(utils.DiagnosticInfo)
	r.ReportError(err)

	output := errOut.String()
	assert.Contains(t, output, "Type: Error")
	assert.Contains(t, output, "Message: disk full")
	assert.Contains(t, output, "1. Free some space")
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	summary := GenerationSummary{
		InputFiles:     2,
		TypesDeclared:  5,
		Requests:       3,
		Skipped:        1,
		GeneratedFiles: []string{"out/Box$Widget.java"},
	}

	r, out, _ := newTestReporter(utils.DiagnosticInfo)
	r.ReportSuccess(summary)
	assert.Contains(t, out.String(), "Read 2 input files declaring 5 types")
	assert.Contains(t, out.String(), "Skipped 1 requests without a bound")
	assert.Contains(t, out.String(), "  - out/Box$Widget.java")
	assert.NotContains(t, out.String(), "warnings")

	quiet, quietOut, _ := newTestReporter(utils.DiagnosticError)
	quiet.ReportSuccess(summary)
	assert.Empty(t, quietOut.String())
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Type", formatContextKey("type_name"))
	assert.Equal(t, "Referenced Type", formatContextKey("referenced_type"))
	assert.Equal(t, "Round Id", formatContextKey("round_id"))
	assert.Equal(t, "Method", formatContextKey("method"))
}
