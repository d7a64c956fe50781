package shellmock

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Command configures the target process.
type Command struct {
	Cmd  string   // Binary name or path to executable
	Args []string // Arguments to pass to the binary
	Env  []string // Environment variables in "KEY=VALUE" format, layered over the ambient environment
	Dir  string   // Working directory for execution

	// Stdin is used when channel 0 is a pipe.
	Stdin io.Reader

	// Stdout and Stderr receive a copy of captured output when the
	// matching channel is a pipe.
	Stdout io.Writer
	Stderr io.Writer
}

// Validate checks that the command is well-formed.
// Returns an error if the command is nil or has an empty binary.
func (c *Command) Validate() error {
	if c == nil {
		return errors.New("command cannot be nil")
	}

	if strings.TrimSpace(c.Cmd) == "" {
		return errors.New("command binary cannot be empty")
	}

	return nil
}

// NewCommand creates a new Command with the given binary and arguments.
func NewCommand(binary string, args ...string) *Command {
	return &Command{
		Cmd:  binary,
		Args: args,
	}
}

// Shell constructs a command that runs script with "sh -c".
func Shell(script string) *Command {
	return &Command{
		Cmd:  "sh",
		Args: []string{"-c", script},
	}
}

// String returns a simplified, shell-quoted string representation of the command.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Cmd
	}

	var b strings.Builder
	b.WriteString(c.Cmd)

	for _, arg := range c.Args {
		b.WriteString(" ")

		if arg == "" || strings.ContainsAny(arg, " \t\n") {
			fmt.Fprintf(&b, "%q", arg)
		} else {
			b.WriteString(arg)
		}
	}

	return b.String()
}

// ParseCommand parses a single command string into a Command using shlex.
// It handles quoted arguments correctly.
func ParseCommand(cmdStr string) (*Command, error) {
	parts, err := shlex.Split(cmdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	if len(parts) == 0 {
		return nil, errors.New("empty command")
	}

	return &Command{
		Cmd:  parts[0],
		Args: parts[1:],
	}, nil
}

// Result is the normalized outcome of a completed run.
type Result struct {
	Code     int           // Exit code; 0 when the process was terminated by a signal
	Signal   string        // Terminating signal name (e.g. "SIGKILL"), empty otherwise
	Stdout   string        // Captured stdout, empty unless channel 1 is a pipe
	Stderr   string        // Captured stderr, empty unless channel 2 is a pipe
	Duration time.Duration // Time between start and close
	Calls    []Call        // Intercepted invocations in the order they were served
}

// Success returns true if the command exited with code 0 and was not signaled.
func (r *Result) Success() bool {
	return r.Code == 0 && r.Signal == ""
}

// Failed returns true if the command exited non-zero or was signaled.
func (r *Result) Failed() bool {
	return !r.Success()
}

// Call records a single intercepted invocation.
type Call struct {
	Cmd    string
	Args   []string
	Output Output
}

// Stdio describes how one channel of the child is wired.
type Stdio string

const (
	// StdioPipe captures the channel (stdout/stderr) or feeds Command.Stdin (stdin).
	StdioPipe Stdio = "pipe"
	// StdioInherit connects the channel to the parent's matching stream.
	StdioInherit Stdio = "inherit"
	// StdioIgnore connects the channel to the null device.
	StdioIgnore Stdio = "ignore"
	// StdioIPC enables the control channel used by messengers.
	StdioIPC Stdio = "ipc"
)
