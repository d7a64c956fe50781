package cli

import (
	"fmt"

	"github.com/ruffel/shellmock"
	"github.com/spf13/cobra"
)

func newShimCmd() *cobra.Command {
	var (
		messenger string
		shebang   string
	)

	cmd := &cobra.Command{
		Use:   "shim <command>",
		Short: "Print the shim generated for a command",
		Long: `Print the file content shellmock writes for a mocked command.

By default the shim re-executes this shellmock binary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []shellmock.Option
			if messenger != "" {
				opts = append(opts, shellmock.WithMessenger(messenger))
			}

			opts = append(opts, shellmock.WithShebang(shebang))

			content, err := shellmock.RenderShim(args[0], opts...)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), content)

			return nil
		},
	}

	cmd.Flags().StringVar(&messenger, "messenger", "", "Executable the shim re-executes (default: this binary)")
	cmd.Flags().StringVar(&shebang, "shebang", "", "First line of the shim, e.g. '#!/bin/sh'")

	return cmd
}
