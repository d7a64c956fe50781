package shellmock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ruffel/shellmock/internal/alias"
)

// SpawnWithMocks starts cmd with every mocked command shadowed on its PATH and
// returns the live process.
//
// Setup failures are returned synchronously and leave nothing behind: the alias
// directory is removed before the error is returned. Failures after the process
// started are reported by Process.Wait.
func SpawnWithMocks(ctx context.Context, cmd *Command, opts ...Option) (*Process, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := checkPlatform(); err != nil {
		return nil, err
	}

	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	dir, err := cfg.TempDirs.Create(AliasDirPrefix)
	if err != nil {
		return nil, &SetupError{Stage: "create alias directory", Err: err}
	}

	spec := normalizeInput(cmd, cfg, dir.Path())

	if err := checkMockNames(cfg.Mocks, cfg.Messenger); err != nil {
		return nil, removeOnError(dir, err)
	}

	gen := alias.Generator{
		Messenger: cfg.Messenger,
		Shebang:   cfg.Shebang,
		Writer:    cfg.Writer,
	}

	if _, err := gen.CreateAll(dir.Path(), cfg.Mocks.Names()); err != nil {
		return nil, removeOnError(dir, &SetupError{Stage: "write alias files", Err: err})
	}

	proc, err := spawnProcess(ctx, spec, cfg.Mocks, dir)
	if err != nil {
		return nil, removeOnError(dir, &SetupError{Stage: "start process", Err: err})
	}

	return proc, nil
}

// Spawn runs cmd with mocks and waits for it to finish. It returns either the
// complete Result or an error, never both.
func Spawn(ctx context.Context, cmd *Command, opts ...Option) (*Result, error) {
	proc, err := SpawnWithMocks(ctx, cmd, opts...)
	if err != nil {
		return nil, err
	}

	defer func() { _ = proc.Close() }()

	if err := proc.Wait(); err != nil {
		return nil, err
	}

	return proc.Result(), nil
}

// SpawnShell runs script with "sh -c" and waits for it to finish.
func SpawnShell(ctx context.Context, script string, opts ...Option) (*Result, error) {
	return Spawn(ctx, Shell(script), opts...)
}

// checkMockNames rejects a mock for the messenger's own executable name.
func checkMockNames(mocks Mocks, messenger string) error {
	name := filepath.Base(messenger)

	if _, ok := mocks[name]; ok {
		return fmt.Errorf("%w: %q", ErrRuntimeMocked, name)
	}

	return nil
}

func removeOnError(dir TempDir, err error) error {
	if rmErr := dir.Remove(); rmErr != nil {
		return errors.Join(err, rmErr)
	}

	return err
}
