package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	cerrors "github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/utils"
)

// DiagnosticReporter prints engine diagnostics and run failures. It is the
// diagnostics sink of CLI runs.
type DiagnosticReporter struct {
	verbose   bool
	quiet     bool
	useColors bool
	out       io.Writer
	errOut    io.Writer

	mu     sync.Mutex
	counts map[models.Severity]int
}

// NewDiagnosticReporter creates a reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose:   verbose,
		useColors: utils.ShouldUseColors(os.Stderr),
		out:       os.Stdout,
		errOut:    os.Stderr,
		counts:    make(map[models.Severity]int),
	}
}

// NewDiagnosticReporterFor creates a reporter sharing the writers and level of
// a diagnostic system
func NewDiagnosticReporterFor(d *utils.DiagnosticSystem) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose:   d.Level() >= utils.DiagnosticVerbose,
		quiet:     d.Level() < utils.DiagnosticWarn,
		useColors: d.UseColors(),
		out:       d.Output(),
		errOut:    d.ErrorOutput(),
		counts:    make(map[models.Severity]int),
	}
}

// Report prints one engine diagnostic. Notes are verbose only; warnings are
// hidden in quiet mode.
func (r *DiagnosticReporter) Report(d models.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[d.Severity]++

	switch d.Severity {
	case models.SeverityNote:
		if !r.verbose {
			return
		}
		r.printDiagnostic(r.out, d, color.FgCyan)
	case models.SeverityWarning:
		if r.quiet {
			return
		}
		r.printDiagnostic(r.errOut, d, color.FgYellow, color.Bold)
	default:
		r.printDiagnostic(r.errOut, d, color.FgRed, color.Bold)
	}
}

// Count returns how many diagnostics of a severity were reported
func (r *DiagnosticReporter) Count(severity models.Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[severity]
}

// ResetCounts clears the counters between rounds
func (r *DiagnosticReporter) ResetCounts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = make(map[models.Severity]int)
}

func (r *DiagnosticReporter) printDiagnostic(w io.Writer, d models.Diagnostic, attrs ...color.Attribute) {
	r.colored(attrs...).Fprint(w, d.Severity.String())
	if loc := d.Anchor.String(); loc != "" {
		fmt.Fprintf(w, ": %s", loc)
	}
	fmt.Fprintf(w, ": %s\n", d.Message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(r.errOut, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.errOut, "=============================\n\n")

	collected := errors.CollectErrors(errors.Flatten(err)...)
	if collected.Count() > 1 {
		r.printBreakdown(collected)
	}
	for _, re := range collected.Errors {
		r.reportReifyError(re)
	}

	if hints := cerrors.GetAllHints(err); len(hints) > 0 {
		r.printSuggestions(hints)
	}

	if r.verbose {
		r.printErrorChain(err)
	}
	fmt.Fprintf(r.errOut, "\n")
}

// reportReifyError reports one error with its location, context and suggestions
func (r *DiagnosticReporter) reportReifyError(err errors.ReifyError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Summary())

	if loc := err.Location(); loc.File != "" {
		fmt.Fprintf(r.errOut, "Location: %s\n\n", loc)
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

// printBreakdown prints how many errors of each kind a collection holds
func (r *DiagnosticReporter) printBreakdown(collected *errors.MultipleErrors) {
	var titles []string
	counts := make(map[string]int)
	for code := errors.UnknownErrorCode; code <= errors.ConfigurationErrorCode; code++ {
		if !collected.HasCode(code) {
			continue
		}
		title := errorTitle(code)
		if _, seen := counts[title]; !seen {
			titles = append(titles, title)
		}
		counts[title] += len(collected.GetByCode(code))
	}

	parts := make([]string, len(titles))
	for i, title := range titles {
		parts[i] = fmt.Sprintf("%s (%d)", title, counts[title])
	}
	fmt.Fprintf(r.errOut, "Found %d errors: %s\n\n", collected.Count(), strings.Join(parts, ", "))
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	title := errorTitle(code)
	r.colored(color.FgRed, color.Bold).Fprintf(r.errOut, "Type: %s\n", title)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(title)+6))
}

func errorTitle(code errors.ErrorCode) string {
	var title string
	switch code {
	case errors.MalformedHierarchyCode:
		title = "Malformed Hierarchy"
	case errors.UnsupportedConstructCode:
		title = "Unsupported Construct"
	case errors.InvalidSignatureCode:
		title = "Invalid Signature"
	case errors.ConstructorResolutionCode:
		title = "Constructor Resolution Failure"
	case errors.SyntaxErrorCode:
		title = "Syntax Error"
	case errors.ValidationErrorCode:
		title = "Validation Error"
	case errors.GenerationErrorCode, errors.TemplateErrorCode:
		title = "Code Generation Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	default:
		title = "Error"
	}
	return title
}

// printContext prints context information, well-known keys first
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")

	importantKeys := []string{"type_name", "referenced_type", "method", "bound"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	switch key {
	case "type_name":
		return "Type"
	case "referenced_type":
		return "Referenced Type"
	}
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(r.errOut, "\n")
}

// printErrorChain prints the wrapped causes in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.errOut, "Error Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.errOut, "    %d. %s\n", level, err.Error())
		err = cerrors.UnwrapOnce(err)
		level++
	}
}

// ReportSuccess reports a finished round with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "=======================================\n\n")

	fmt.Fprintf(r.out, "Read %d input files declaring %d types\n", summary.InputFiles, summary.TypesDeclared)
	fmt.Fprintf(r.out, "Processed %d reification requests\n", summary.Requests)
	if summary.Skipped > 0 {
		fmt.Fprintf(r.out, "Skipped %d requests without a bound\n", summary.Skipped)
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(r.out, "Reported %d warnings\n", summary.Warnings)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
}

// colored returns a color printer that honors the reporter's color setting
func (r *DiagnosticReporter) colored(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
