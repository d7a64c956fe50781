//go:build windows

package shellmock

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// killProcessGroup kills the process tree rooted at pid.
func killProcessGroup(pid int) error {
	return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}

func setProcessGroup(_ *exec.Cmd) {}

func exitStatus(state *os.ProcessState) (int, string) {
	if state == nil || state.ExitCode() < 0 {
		return 0, ""
	}

	return state.ExitCode(), ""
}

// Shims are POSIX shell snippets, so interception needs a POSIX shell and Unix sockets.
func checkPlatform() error {
	return fmt.Errorf("command interception on windows: %w", ErrNotSupported)
}
