package shellmock

import (
	"maps"
	"os"

	"github.com/ruffel/shellmock/internal/tempdir"
)

// AliasDirPrefix is the name prefix of every alias directory.
const AliasDirPrefix = "temp-aliases-"

// Options holds configuration derived from Option values.
type Options struct {
	Mocks Mocks

	// StdioToken, when set, is broadcast to stdin, stdout and stderr.
	StdioToken Stdio
	// StdioChannels configures channels by position (0 stdin, 1 stdout, 2 stderr, ...).
	// It is ignored when StdioToken is set.
	StdioChannels []Stdio

	Shebang   string           // First line of each shim, none by default
	Messenger string           // Executable the shims re-execute; defaults to os.Executable()
	Environ   []string         // Ambient environment; defaults to os.Environ()
	TempDirs  TempDirAllocator // Defaults to directories under os.TempDir()
	Writer    FileWriter       // Defaults to the local filesystem
}

// Option defines a functional option for a run.
type Option func(*Options)

// WithMocks adds every entry of mocks to the mock table.
func WithMocks(mocks Mocks) Option {
	return func(o *Options) {
		if o.Mocks == nil {
			o.Mocks = Mocks{}
		}

		maps.Copy(o.Mocks, mocks)
	}
}

// WithMock mocks a single command.
func WithMock(name string, fn MockFunc) Option {
	return WithMocks(Mocks{name: fn})
}

// WithStdio wires stdin, stdout and stderr the same way.
func WithStdio(token Stdio) Option {
	return func(o *Options) {
		o.StdioToken = token
	}
}

// WithStdioChannels wires channels by position. The control channel is appended
// when it is not listed.
func WithStdioChannels(channels ...Stdio) Option {
	return func(o *Options) {
		o.StdioToken = ""
		o.StdioChannels = channels
	}
}

// WithShebang sets the first line written to every shim, e.g. "#!/bin/sh".
func WithShebang(line string) Option {
	return func(o *Options) {
		o.Shebang = line
	}
}

// WithMessenger sets the executable that shims re-execute. It must import this
// package so that its init hook serves messenger mode.
func WithMessenger(path string) Option {
	return func(o *Options) {
		o.Messenger = path
	}
}

// WithEnviron replaces the ambient environment the child environment is built from.
func WithEnviron(environ []string) Option {
	return func(o *Options) {
		o.Environ = environ
	}
}

// WithTempDirAllocator replaces the allocator used for alias directories.
func WithTempDirAllocator(a TempDirAllocator) Option {
	return func(o *Options) {
		o.TempDirs = a
	}
}

// WithFileWriter replaces the writer used for alias files.
func WithFileWriter(w FileWriter) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

func buildOptions(opts []Option) (Options, error) {
	var cfg Options

	for _, o := range opts {
		o(&cfg)
	}

	if cfg.Environ == nil {
		cfg.Environ = os.Environ()
	}

	if cfg.TempDirs == nil {
		cfg.TempDirs = localTempDirs{}
	}

	if cfg.Messenger == "" {
		exe, err := os.Executable()
		if err != nil {
			return cfg, &SetupError{Stage: "resolve messenger", Err: err}
		}

		cfg.Messenger = exe
	}

	return cfg, nil
}

// localTempDirs adapts tempdir.Allocator to TempDirAllocator.
type localTempDirs struct {
	tempdir.Allocator
}

func (a localTempDirs) Create(prefix string) (TempDir, error) {
	dir, err := a.Allocator.Create(prefix)
	if err != nil {
		return nil, err
	}

	return dir, nil
}
