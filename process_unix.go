//go:build !windows

package shellmock

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// killProcessGroup kills the process group with the given PID.
func killProcessGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}

// setProcessGroup puts the command in a new process group so the whole tree,
// messengers included, can be killed at once.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// exitStatus returns the exit code and terminating signal name of a finished process.
// A signaled process reports code 0.
func exitStatus(state *os.ProcessState) (int, string) {
	if state == nil {
		return 0, ""
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 0, unix.SignalName(ws.Signal())
	}

	code := state.ExitCode()
	if code < 0 {
		code = 0
	}

	return code, ""
}

func checkPlatform() error {
	return nil
}
