package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/bisgardo/reification/internal/cli"
	"github.com/bisgardo/reification/internal/utils"
)

type generateOptions struct {
	configPath string
	outDir     string
	format     string
	separator  string
	verbose    bool
	quiet      bool
	watch      bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate specialized types for @Reify-annotated type parameters",
		Long: `Scans the directories for .rdecl and .snapshot.yaml files, processes every
@Reify request and writes one file per generated type below the output
directory. Directories default to the configured inputs.`,
		Example: `  reify generate ./...                   # Scan everything recursively
  reify generate --out gen ./src/...     # Write below gen/
  reify generate --format json ./...     # Emit descriptors as JSON
  reify generate --watch ./src/...       # Regenerate when inputs change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default reify.toml or reify.yaml in the working directory)")
	flags.StringVarP(&opts.outDir, "out", "o", "", "output directory")
	flags.StringVar(&opts.format, "format", "", "output format: java or json")
	flags.StringVar(&opts.separator, "separator", "", "separator between the target and argument names")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever an input file changes")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	diagnostics := newDiagnostics(cmd, utils.ParseDiagnosticLevel(opts.verbose, opts.quiet))
	gen := cli.NewGeneratorWithDiagnostics(diagnostics)

	config, err := loadGenerateConfig(cmd, args, opts)
	if err != nil {
		gen.Reporter().ReportError(err)
		return errReported
	}

	diagnostics.Header("Reification code generator")
	diagnostics.SourcePath(strings.Join(config.Inputs, ", "))
	if opts.verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Output directory: %s", config.OutputDir)
		diagnostics.List("Format: %s", config.Format)
		diagnostics.List("Prefixes: %s, %s", config.Prefixes.NewInstance, config.Prefixes.ClassDescriptor)
	}

	round := func() error {
		if err := gen.Run(config); err != nil {
			gen.Reporter().ReportError(err)
			return errReported
		}
		gen.ReportSuccess()
		diagnostics.GenerationComplete()
		return nil
	}

	if !opts.watch {
		return round()
	}

	// A failing first round is reported; watching continues so it can be fixed.
	_ = round()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := cli.NewWatcher(config.Inputs, diagnostics, func() error {
		_ = round()
		return nil
	})
	if err != nil {
		return cerrors.Wrap(err, "start watcher")
	}
	diagnostics.Info("Watching %s for changes (Ctrl+C to stop)", strings.Join(config.Inputs, ", "))
	return watcher.Run(ctx)
}

// loadGenerateConfig applies arguments and changed flags on top of the
// configuration file
func loadGenerateConfig(cmd *cobra.Command, args []string, opts *generateOptions) (*cli.Config, error) {
	config, err := cli.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		config.Inputs = args
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		config.OutputDir = opts.outDir
	}
	if flags.Changed("format") {
		config.Format = opts.format
	}
	if flags.Changed("separator") {
		config.Separator = opts.separator
	}
	config.Verbose = opts.verbose

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
