// Package messenger is the shim side of the control protocol. A messenger process
// is started by a shim with the mocked command name as its first argument; it asks
// the spawning process for the mock's output, replays it and exits with its code.
package messenger

import (
	"fmt"
	"io"

	"github.com/ruffel/shellmock/internal/ipc"
)

// Exit codes used when the messenger itself fails.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Run sends one request for cmd and args over rw, waits for the correlated reply,
// then writes its stdout and stderr and returns its exit code.
func Run(rw io.ReadWriter, cmd string, args []string, stdout, stderr io.Writer) (int, error) {
	reply, err := ipc.Roundtrip(rw, ipc.Request{
		ID:   ipc.NewID(),
		Cmd:  cmd,
		Args: ipc.PackArgs(args),
	})
	if err != nil {
		return ExitFailure, fmt.Errorf("%s: %w", cmd, err)
	}

	if _, err := stdout.Write(reply.Stdout); err != nil {
		return ExitFailure, fmt.Errorf("%s: failed to write stdout: %w", cmd, err)
	}

	if _, err := stderr.Write(reply.Stderr); err != nil {
		return ExitFailure, fmt.Errorf("%s: failed to write stderr: %w", cmd, err)
	}

	return reply.Code, nil
}

// Main runs the messenger for the given arguments (os.Args[1:]) and returns the
// process exit code. getenv is usually os.Getenv.
func Main(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "shellmock: messenger started without a command name")

		return ExitUsage
	}

	conn, err := ipc.Dial(getenv(ipc.EnvSocket))
	if err != nil {
		fmt.Fprintf(stderr, "shellmock: %s: %v\n", args[0], err)

		return ExitFailure
	}

	defer func() { _ = conn.Close() }()

	code, err := Run(conn, args[0], args[1:], stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "shellmock: %v\n", err)

		return ExitFailure
	}

	return code
}
