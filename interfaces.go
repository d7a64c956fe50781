// Package shellmock runs a process while intercepting selected external commands
// that it invokes through a PATH lookup.
//
// # How it works
//
// For every mocked command name, an executable shim is written into a temporary
// directory that is prepended to the child's PATH. When the child's shell runs a
// shimmed name, the shim re-executes the messenger: the current Go binary (or the
// one configured with WithMessenger). The messenger sends the invocation to the
// parent over a control socket, blocks until the parent replies with the mock's
// output, replays that output and exits with the mock's code. Unmocked commands
// run normally.
//
// # Messenger mode
//
// Importing this package installs an init hook: a binary started with
// SHELLMOCK_ROLE=messenger behaves as a messenger and exits before main (or the
// test runner) starts. This is what lets a `go test` binary serve as its own
// messenger without any extra setup.
//
// # Entry points
//
//   - SpawnWithMocks starts the command and returns a live Process.
//   - Spawn starts the command and waits for a single settled Result.
//   - SpawnShell runs a script with "sh -c".
//
// Commands are built with NewCommand, Shell, the Cmd builder, or ParseCommand
// for a single shell-quoted string.
package shellmock

import (
	"github.com/ruffel/shellmock/internal/alias"
)

// TempDir is a directory owned by exactly one run.
type TempDir interface {
	// Path returns the absolute path of the directory.
	Path() string

	// Remove deletes the directory and everything in it.
	// Only the first call has an effect.
	Remove() error
}

// TempDirAllocator creates uniquely named temporary directories.
type TempDirAllocator interface {
	Create(prefix string) (TempDir, error)
}

// FileWriter creates or truncates a file with the given content and permissions.
type FileWriter = alias.FileWriter
