package cli

import (
	"github.com/ruffel/shellmock/internal/mockfile"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate mock files and list their mocks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make(map[string]*mockfile.File, len(args))

			for _, path := range args {
				f, err := mockfile.Load(path)
				if err != nil {
					return err
				}

				files[path] = f
			}

			return writeMockTable(cmd.OutOrStdout(), args, files)
		},
	}
}
