package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bisgardo/reification/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reify %s (%s, configuration schema %s)\n", version, runtime.Version(), cli.SupportedConfigMajor)
		},
	}
}
