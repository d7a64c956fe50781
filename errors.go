package shellmock

import (
	"errors"
	"fmt"
)

// ErrNotSupported indicates that interception is not available on this platform.
var ErrNotSupported = errors.New("operation not supported")

// ErrRuntimeMocked indicates that the mock table contains the messenger's own
// executable name. Shims re-execute that executable, so it cannot be mocked.
var ErrRuntimeMocked = errors.New("mocking the messenger executable is not supported")

// ErrMissingMock indicates that a shim asked for a command that has no mock.
// Shims are only generated for mocked names, so this points at an integration bug.
var ErrMissingMock = errors.New("no mock registered for command")

// SetupError represents a failure before the target process was running:
// allocating the alias directory, writing alias files, or starting the process.
// The alias directory has already been removed when it is returned.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed (%s): %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// SpawnError represents a failure of a running process that is not a plain exit,
// e.g. an I/O failure while draining its streams or a cancelled context.
type SpawnError struct {
	Command *Command
	Err     error
}

func (e *SpawnError) Error() string {
	if e.Command == nil {
		return fmt.Sprintf("spawn error: %v", e.Err)
	}

	return fmt.Sprintf("spawn error executing %q: %v", e.Command.String(), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// MockPanicError reports a mock function that panicked while serving a call.
type MockPanicError struct {
	Cmd   string
	Args  []string
	Value any
}

func (e *MockPanicError) Error() string {
	return fmt.Sprintf("mock for %q panicked: %v", e.Cmd, e.Value)
}
