package shellmock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/ruffel/shellmock/internal/ipc"
)

// Process is a running target started by SpawnWithMocks.
//
// The outcome settles exactly once: either a runtime failure (reported by Wait)
// or a Result built when the process has exited and its streams have drained.
// The alias directory is removed before Wait returns.
type Process struct {
	cmd     *Command
	execCmd *exec.Cmd
	dir     TempDir
	server  *ipc.Server
	mocks   Mocks

	stdout chunkBuffer
	stderr chunkBuffer

	// serializes mock invocations and keeps calls in service order
	mockMu sync.Mutex

	mu        sync.RWMutex
	calls     []Call
	failure   error
	result    *Result
	done      chan struct{}
	startedAt time.Time
}

// Wait blocks until the process has exited, its streams have drained and the
// alias directory has been removed. It returns the runtime failure, if any.
// A non-zero exit code is not a failure; inspect Result instead.
func (p *Process) Wait() error {
	<-p.done

	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.failure
}

// Result returns the normalized result, or nil while the process is running or
// when the run failed.
func (p *Process) Result() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.result == nil {
		return nil
	}

	res := *p.result
	res.Calls = slices.Clone(p.result.Calls)

	return &res
}

// Signal sends an OS signal to the target process.
func (p *Process) Signal(sig os.Signal) error {
	select {
	case <-p.done:
		return fmt.Errorf("cannot signal process %q: already exited", p.cmd.String())
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.execCmd == nil || p.execCmd.Process == nil {
		return fmt.Errorf("cannot signal process %q: not started", p.cmd.String())
	}

	return p.execCmd.Process.Signal(sig)
}

// Close kills the process group if it is still running and waits for the run to
// settle. It never reports the run's failure; use Wait for that.
func (p *Process) Close() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	p.kill()
	<-p.done

	return nil
}

// Pid returns the target's process id.
func (p *Process) Pid() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.execCmd == nil || p.execCmd.Process == nil {
		return 0
	}

	return p.execCmd.Process.Pid
}

// Dir returns the path of the alias directory. It no longer exists once Wait returns.
func (p *Process) Dir() string {
	return p.dir.Path()
}

// Calls returns the intercepted invocations served so far.
func (p *Process) Calls() []Call {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Clone(p.calls)
}

// Done is closed once the run has settled.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// fail settles the run as failed and kills the process group.
// Only the first failure is kept; nothing happens once the run has settled.
func (p *Process) fail(err error) {
	p.mu.Lock()

	if p.failure != nil || p.result != nil {
		p.mu.Unlock()

		return
	}

	p.failure = err
	p.mu.Unlock()

	p.kill()
}

func (p *Process) kill() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.execCmd != nil && p.execCmd.Process != nil && p.execCmd.Process.Pid > 0 {
		_ = killProcessGroup(p.execCmd.Process.Pid)
	}
}

// monitor waits for the process, then tears down the control channel, removes the
// alias directory and settles the run.
func (p *Process) monitor(ctx context.Context) {
	defer close(p.done)

	waitErr := p.execCmd.Wait()
	duration := time.Since(p.startedAt)

	if p.server != nil {
		_ = p.server.Close()
	}

	removeErr := p.dir.Remove()

	p.mu.Lock()
	defer p.mu.Unlock()

	var exitErr *exec.ExitError

	switch {
	case p.failure != nil:
		// Settled by a runtime error.
	case waitErr != nil && ctx.Err() != nil:
		p.failure = &SpawnError{Command: p.cmd, Err: ctx.Err()}
	case waitErr != nil && !errors.As(waitErr, &exitErr):
		p.failure = &SpawnError{Command: p.cmd, Err: waitErr}
	case removeErr != nil:
		p.failure = removeErr
	default:
		code, signal := exitStatus(p.execCmd.ProcessState)

		p.result = newResult(code, signal, p.stdout.Chunks(), p.stderr.Chunks())
		p.result.Duration = duration
		p.result.Calls = slices.Clone(p.calls)
	}
}

// newResult concatenates the buffered chunks of each stream in arrival order.
func newResult(code int, signal string, stdout, stderr [][]byte) *Result {
	return &Result{
		Code:   code,
		Signal: signal,
		Stdout: string(bytes.Join(stdout, nil)),
		Stderr: string(bytes.Join(stderr, nil)),
	}
}

// chunkBuffer keeps a copy of every chunk written to it.
type chunkBuffer struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (b *chunkBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.chunks = append(b.chunks, bytes.Clone(p))
	b.mu.Unlock()

	return len(p), nil
}

// Chunks returns the chunks written so far.
func (b *chunkBuffer) Chunks() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.chunks)
}
