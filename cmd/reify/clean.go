package main

import (
	"github.com/spf13/cobra"

	"github.com/bisgardo/reification/internal/cli"
	"github.com/bisgardo/reification/internal/utils"
)

func newCleanCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		quiet      bool
	)
	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated files",
		Long: `Removes every .java file whose first line is the generated-code header.
Without arguments the configured output directory is cleaned recursively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := newDiagnostics(cmd, utils.ParseDiagnosticLevel(verbose, quiet))
			reporter := cli.NewDiagnosticReporterFor(diagnostics)

			dirs := args
			if len(dirs) == 0 {
				config, err := cli.LoadConfig(configPath)
				if err != nil {
					reporter.ReportError(err)
					return errReported
				}
				dirs = []string{config.OutputDir + "/..."}
			}

			diagnostics.StartProgress("Cleaning generated files")
			removed, err := cli.NewCleaner().CleanGeneratedFiles(dirs)
			if err != nil {
				diagnostics.EndProgress(false, "")
				reporter.ReportError(err)
				return errReported
			}
			diagnostics.EndProgress(true, "")

			for _, f := range removed {
				diagnostics.List("%s", f)
			}
			diagnostics.Success("Removed %d generated files", len(removed))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file naming the output directory")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only show errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}
