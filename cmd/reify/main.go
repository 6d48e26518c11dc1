package main

import (
	"context"
	"fmt"
	"os"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/bisgardo/reification/internal/utils"
)

// errReported marks failures whose details were already printed
var errReported = cerrors.New("errors reported above")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !cerrors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reify",
		Short: "Generate specializations of generic types",
		Long: `reify reads type declarations and, for every type parameter annotated with
@Reify(X.class), generates a subclass that binds the parameter to X and
implements the abstract factory and class-descriptor methods.

Directory patterns:
  ./...              Scan the current directory and all subdirectories
  ./src/...          Scan src and all its subdirectories
  ./src/model        Scan only the specific directory (no recursion)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// newDiagnostics writes to the command's streams. Colors are only detected
// when those are the process's own.
func newDiagnostics(cmd *cobra.Command, level utils.DiagnosticLevel) *utils.DiagnosticSystem {
	if cmd.OutOrStdout() == os.Stdout && cmd.ErrOrStderr() == os.Stderr {
		return utils.NewDiagnosticSystem(level)
	}
	return utils.NewDiagnosticSystemWithWriters(level, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
