package cli

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/ruffel/shellmock"
	"github.com/ruffel/shellmock/internal/mockfile"
	"github.com/spf13/cobra"
)

type runOptions struct {
	mockFiles []string
	report    bool
	shebang   string
	stdio     string
	dir       string
	env       []string
	cmdLine   string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [flags] (-- command [args...] | --cmd 'command line')",
		Short: "Run a command with mocks from files",
		Long: `Run a command with every command named in the mock files replaced by a shim.

Mock files are TOML or YAML, picked by extension. Later files override earlier
ones for the same command name. shellmock exits with the command's exit code.

--cmd takes the whole command as one string and splits it with shell quoting
rules; it does not run a shell, so pipes and redirections need sh -c.`,
		Example: `  shellmock run -m mocks.toml -- sh ./deploy.sh
  shellmock run -m base.yaml -m ci.yaml --report -- make release
  shellmock run -m mocks.toml --cmd "sh -c 'curl -s example.org | grep Frog'"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	// Flags after the command name belong to the command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVarP(&opts.mockFiles, "mocks", "m", nil, "Mock file to load (repeatable)")
	cmd.Flags().BoolVar(&opts.report, "report", false, "Print a table of intercepted calls to stderr")
	cmd.Flags().StringVar(&opts.shebang, "shebang", "", "First line written to every shim, e.g. '#!/bin/sh'")
	cmd.Flags().StringVar(&opts.stdio, "stdio", string(shellmock.StdioInherit), "Wiring of stdin/stdout/stderr: inherit, pipe or ignore")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", "", "Working directory of the command")
	cmd.Flags().StringArrayVarP(&opts.env, "env", "e", nil, "Extra environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.cmdLine, "cmd", "", "Command line to run as a single shell-quoted string")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts runOptions) error {
	target, err := targetCommand(args, opts.cmdLine)
	if err != nil {
		return err
	}

	mocks, err := loadMocks(opts.mockFiles)
	if err != nil {
		return err
	}

	stdio, err := parseStdio(opts.stdio)
	if err != nil {
		return err
	}

	for _, kv := range opts.env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("invalid --env value %q: expected KEY=VALUE", kv)
		}
	}

	target.Env = opts.env
	target.Dir = opts.dir

	if stdio == shellmock.StdioPipe {
		target.Stdin = cmd.InOrStdin()
	}

	res, err := shellmock.Spawn(cmd.Context(), target,
		shellmock.WithMocks(mocks),
		shellmock.WithStdio(stdio),
		shellmock.WithShebang(opts.shebang),
	)
	if err != nil {
		return err
	}

	if stdio == shellmock.StdioPipe {
		fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
		fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
	}

	if opts.report {
		if err := writeReport(cmd.ErrOrStderr(), res); err != nil {
			return err
		}
	}

	switch {
	case res.Signal != "":
		fmt.Fprintf(cmd.ErrOrStderr(), "shellmock: %s terminated by %s\n", target.Cmd, res.Signal)

		return &ExitError{Code: 1}
	case res.Code != 0:
		return &ExitError{Code: res.Code}
	}

	return nil
}

// targetCommand builds the command from the positional arguments or from --cmd.
func targetCommand(args []string, cmdLine string) (*shellmock.Command, error) {
	switch {
	case cmdLine != "" && len(args) > 0:
		return nil, errors.New("pass the command either after -- or with --cmd, not both")
	case cmdLine != "":
		return shellmock.ParseCommand(cmdLine)
	case len(args) == 0:
		return nil, errors.New("no command given: pass it after -- or with --cmd")
	}

	return shellmock.NewCommand(args[0], args[1:]...), nil
}

func loadMocks(paths []string) (shellmock.Mocks, error) {
	mocks := shellmock.Mocks{}

	for _, path := range paths {
		f, err := mockfile.Load(path)
		if err != nil {
			return nil, err
		}

		maps.Copy(mocks, f.Mocks())
	}

	return mocks, nil
}

func parseStdio(s string) (shellmock.Stdio, error) {
	switch stdio := shellmock.Stdio(s); stdio {
	case shellmock.StdioInherit, shellmock.StdioPipe, shellmock.StdioIgnore:
		return stdio, nil
	}

	return "", errors.New("--stdio must be one of inherit, pipe, ignore")
}
