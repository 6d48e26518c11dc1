package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/generator"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/parser"
	"github.com/bisgardo/reification/internal/reifier"
	"github.com/bisgardo/reification/internal/typegraph"
	"github.com/bisgardo/reification/internal/utils"
)

// GenerationSummary contains information about one generation round
type GenerationSummary struct {
	RoundID        string
	InputFiles     int
	TypesDeclared  int
	Requests       int
	Generated      int
	Failed         int
	Skipped        int
	Warnings       int
	GeneratedFiles []string
	Duration       time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner     *DirectoryScanner
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(verbose bool) *Generator {
	level := utils.ParseDiagnosticLevel(verbose, false)
	return NewGeneratorWithDiagnostics(utils.NewDiagnosticSystem(level))
}

// NewGeneratorWithDiagnostics creates a CLI generator whose output goes
// through diagnostics
func NewGeneratorWithDiagnostics(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:     NewDirectoryScanner(),
		reporter:    NewDiagnosticReporterFor(diagnostics),
		diagnostics: diagnostics,
	}
}

// Reporter returns the reporter engine diagnostics are printed with
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last round
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// ReportSuccess prints the summary of the last round
func (g *Generator) ReportSuccess() {
	g.reporter.ReportSuccess(g.summary)
}

// Run executes one complete generation round: scan, parse, reify, render
// and write. Requests are independent; files of successful requests are
// written even when other requests fail, and the failure count is returned
// as an error.
func (g *Generator) Run(config *Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{RoundID: uuid.NewString(), GeneratedFiles: make([]string, 0)}
	g.reporter.ResetCounts()

	g.diagnostics.Verbose("Starting round %s at %s", g.summary.RoundID, startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", config.Inputs)

	g.diagnostics.StartProgress("Scanning directories for input files")
	files, err := g.scanner.ScanDirectories(config.Inputs)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	if len(files) == 0 {
		g.diagnostics.EndProgress(false, "")
		return errors.New(errors.ValidationErrorCode, "no input files found in specified directories").
			WithContext("directories", config.Inputs).
			WithSuggestions(
				fmt.Sprintf("Ensure the directories contain %s or %s files", parser.DeclExtension, parser.SnapshotExtension),
				"Try scanning parent directories or use the './...' pattern",
			)
	}
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d files", len(files)))
	g.summary.InputFiles = len(files)
	g.diagnostics.Indent()
	for _, f := range files {
		g.diagnostics.Verbose("%s", f)
	}
	g.diagnostics.Unindent()

	sources, err := g.scanner.ReadInputs(files)
	if err != nil {
		return err
	}

	g.diagnostics.StartProgress("Parsing declarations")
	snapshot, err := parser.LoadSources(sources)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	g.summary.TypesDeclared = snapshot.Len()
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d types", snapshot.Len()))

	reqs := typegraph.Requests(snapshot)
	g.summary.Requests = len(reqs)

	g.diagnostics.StartProgress("Reifying annotated types")
	engine := reifier.New(snapshot, g.reporter, config.ReifierOptions())
	results := engine.ProcessAll(reqs)

	var descriptors []*models.GeneratedTypeDescriptor
	for _, res := range results {
		switch {
		case res.Skipped:
			g.summary.Skipped++
		case res.OK():
			descriptors = append(descriptors, res.Descriptor)
		default:
			g.summary.Failed++
		}
	}
	g.summary.Warnings = g.reporter.Count(models.SeverityWarning)
	g.diagnostics.EndProgress(g.summary.Failed == 0, fmt.Sprintf("%d of %d requests", len(descriptors), len(reqs)))

	codeGen, err := generator.NewGeneratorWithFormat(config.Format)
	if err != nil {
		return err
	}
	generated, err := codeGen.GenerateAll(descriptors)
	if err != nil {
		return errors.WrapGenerateError("generated types", err).WithStage("render")
	}

	for _, f := range generated {
		g.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s", filepath.Join(config.OutputDir, f.Path)))
	}
	written, err := generator.WriteFiles(config.OutputDir, generated)
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, written...)
	g.summary.Generated = len(written)
	if err != nil {
		return err
	}

	g.summary.Duration = time.Since(startTime)
	g.diagnostics.Verbose("Round %s finished in %s", g.summary.RoundID, g.summary.Duration.Round(time.Millisecond))
	if stats := g.scanner.CacheStats(); stats.Hits > 0 {
		g.diagnostics.Debug("Input cache: %d hits, %d misses", stats.Hits, stats.Misses)
	}

	if g.summary.Failed > 0 {
		return errors.Newf(errors.GenerationErrorCode, "%d of %d reification requests failed", g.summary.Failed, g.summary.Requests).
			WithContext("round_id", g.summary.RoundID).
			WithSuggestion("See the ERROR diagnostics above for the failing declarations")
	}
	return nil
}
