package shellmock

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ruffel/shellmock/internal/ipc"
)

// spawnProcess starts the target described by spec and serves intercept requests
// from its descendants with mocks. dir is owned by the returned Process; on error
// the caller still owns it.
func spawnProcess(ctx context.Context, spec *spawnSpec, mocks Mocks, dir TempDir) (*Process, error) {
	p := &Process{
		cmd:   spec.cmd,
		dir:   dir,
		mocks: mocks,
		done:  make(chan struct{}),
	}

	name, args, err := resolveTarget(spec)
	if err != nil {
		return nil, err
	}

	if spec.control != "" {
		srv, err := ipc.Listen(spec.control, p.handle, p.fail)
		if err != nil {
			return nil, err
		}

		p.server = srv
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = spec.cmd.Dir
	c.Env = spec.env

	setProcessGroup(c)

	c.Cancel = func() error {
		return killProcessGroup(c.Process.Pid)
	}

	p.wireStdio(c, spec.stdio)

	// Hold the lock across Start so a fast messenger cannot observe a half-built Process.
	p.mu.Lock()
	p.startedAt = time.Now()
	err = c.Start()

	if err == nil {
		p.execCmd = c
	}
	p.mu.Unlock()

	if err != nil {
		if p.server != nil {
			_ = p.server.Close()
		}

		return nil, err
	}

	go p.monitor(ctx)

	return p, nil
}

// shellPath runs shims that are themselves the target.
const shellPath = "/bin/sh"

// resolveTarget returns the executable and arguments to start. A bare command
// name is looked up on the child's PATH, so a mocked target resolves to its shim;
// shims are started through sh because they carry no shebang by default.
func resolveTarget(spec *spawnSpec) (string, []string, error) {
	name := spec.cmd.Cmd
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return name, spec.cmd.Args, nil
	}

	pathList, _ := lookupEnv(spec.env, "PATH")

	resolved, err := lookPath(name, pathList, spec.cmd.Dir)
	if err != nil {
		return "", nil, err
	}

	if spec.dir != "" && filepath.Dir(resolved) == filepath.Clean(spec.dir) {
		return shellPath, append([]string{resolved}, spec.cmd.Args...), nil
	}

	return resolved, spec.cmd.Args, nil
}

// lookPath searches pathList for an executable file called name. Relative
// entries are taken relative to workDir, or the current directory when it is empty.
func lookPath(name, pathList, workDir string) (string, error) {
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}

		candidate := filepath.Join(dir, name)
		if !filepath.IsAbs(candidate) {
			abs, err := filepath.Abs(filepath.Join(workDir, candidate))
			if err != nil {
				continue
			}

			candidate = abs
		}

		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

// wireStdio connects the first three channels. Channels past stderr carry no
// data; the ipc channel is served over the control socket instead of a descriptor.
func (p *Process) wireStdio(c *exec.Cmd, stdio []Stdio) {
	for i, mode := range stdio {
		switch i {
		case 0:
			switch mode {
			case StdioInherit:
				c.Stdin = os.Stdin
			case StdioPipe, "":
				c.Stdin = p.cmd.Stdin
			case StdioIgnore, StdioIPC:
			}
		case 1:
			c.Stdout = output(mode, os.Stdout, p.cmd.Stdout, &p.stdout)
		case 2:
			c.Stderr = output(mode, os.Stderr, p.cmd.Stderr, &p.stderr)
		}
	}
}

// output returns the writer for an output channel; nil means the null device.
func output(mode Stdio, parent *os.File, tee io.Writer, buf *chunkBuffer) io.Writer {
	switch mode {
	case StdioInherit:
		return parent
	case StdioPipe, "":
		if tee != nil {
			return io.MultiWriter(buf, tee)
		}

		return buf
	case StdioIgnore, StdioIPC:
		return nil
	}

	return nil
}

// handle serves one intercept request.
func (p *Process) handle(_ context.Context, req ipc.Request) (ipc.Reply, error) {
	fn, ok := p.mocks[req.Cmd]
	if !ok || fn == nil {
		return ipc.Reply{}, fmt.Errorf("%w: %q", ErrMissingMock, req.Cmd)
	}

	out, err := p.invoke(req.Cmd, ipc.UnpackArgs(req.Args), fn)
	if err != nil {
		return ipc.Reply{}, err
	}

	return ipc.Reply{
		ID:     req.ID,
		Cmd:    req.Cmd,
		Code:   out.Code,
		Stdout: []byte(out.Stdout),
		Stderr: []byte(out.Stderr),
	}, nil
}

// invoke calls fn with args spread positionally, one mock at a time, and records the call.
func (p *Process) invoke(cmd string, args []string, fn MockFunc) (out Output, err error) {
	p.mockMu.Lock()
	defer p.mockMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = &MockPanicError{Cmd: cmd, Args: slices.Clone(args), Value: r}
		}
	}()

	out = Normalize(fn(slices.Clone(args)...))

	p.mu.Lock()
	p.calls = append(p.calls, Call{Cmd: cmd, Args: slices.Clone(args), Output: out})
	p.mu.Unlock()

	return out, nil
}
