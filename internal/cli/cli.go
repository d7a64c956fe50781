// Package cli implements the shellmock command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by ldflags at build time
var Version = "dev"

// ExitError carries the exit code of a target that did not succeed. main exits
// with Code without printing anything further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shellmock",
		Short: "Run commands with mocked executables",
		Long: `shellmock runs a command with selected executables replaced by canned responses.

Each mocked name is shadowed by a shim placed first on the target's PATH. When
the target (or anything it starts) runs a mocked command, the shim reports the
call back to shellmock and replays the configured exit code and output.

Quick start:
  shellmock run -m mocks.toml -- ./deploy.sh   Run a script against mocks
  shellmock check mocks.toml                    Validate and list mock files
  shellmock shim curl                           Print the shim generated for curl`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("shellmock %s\n", Version))
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newShimCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

// Execute runs the root command. Cancelling ctx kills a running target.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
