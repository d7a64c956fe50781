package shellmock

import (
	"context"
	"io"
	"strings"
)

// Builder provides a fluent API for constructing a Command together with its mocks.
type Builder struct {
	cmd  *Command
	opts []Option
}

// Cmd creates a new Builder for a command with the given name/path.
func Cmd(binary string) *Builder {
	return &Builder{
		cmd: &Command{
			Cmd: binary,
		},
	}
}

// Arg adds a single argument.
func (b *Builder) Arg(arg string) *Builder {
	b.cmd.Args = append(b.cmd.Args, arg)
	return b
}

// Args adds multiple arguments.
func (b *Builder) Args(args ...string) *Builder {
	b.cmd.Args = append(b.cmd.Args, args...)
	return b
}

// Env adds an environment variable in "KEY=VALUE" format.
func (b *Builder) Env(key, value string) *Builder {
	b.cmd.Env = append(b.cmd.Env, key+"="+value)
	return b
}

// Dir sets the working directory.
func (b *Builder) Dir(dir string) *Builder {
	b.cmd.Dir = dir
	return b
}

// Input sets the standard input from a string.
func (b *Builder) Input(s string) *Builder {
	b.cmd.Stdin = strings.NewReader(s)
	return b
}

// Stdout tees captured stdout to w.
func (b *Builder) Stdout(w io.Writer) *Builder {
	b.cmd.Stdout = w
	return b
}

// Stderr tees captured stderr to w.
func (b *Builder) Stderr(w io.Writer) *Builder {
	b.cmd.Stderr = w
	return b
}

// Mock intercepts the named command with fn.
func (b *Builder) Mock(name string, fn MockFunc) *Builder {
	b.opts = append(b.opts, WithMock(name, fn))
	return b
}

// Reply intercepts the named command with a fixed response.
func (b *Builder) Reply(name string, r Response) *Builder {
	return b.Mock(name, func(...string) Response { return r })
}

// With appends arbitrary options.
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns the constructed Command and its options.
func (b *Builder) Build() (*Command, []Option) {
	return b.cmd, b.opts
}

// Start calls SpawnWithMocks with the built command.
func (b *Builder) Start(ctx context.Context) (*Process, error) {
	return SpawnWithMocks(ctx, b.cmd, b.opts...)
}

// Run calls Spawn with the built command.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	return Spawn(ctx, b.cmd, b.opts...)
}

// Stdio wires stdin, stdout and stderr the same way.
func (b *Builder) Stdio(token Stdio) *Builder {
	return b.With(WithStdio(token))
}
