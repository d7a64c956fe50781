// Package alias writes the executable shims that shadow mocked commands on PATH.
//
// Each shim is a one-line shell snippet that re-executes the messenger with the
// mocked command name as its first argument and passes every other argument
// through with "$@".
package alias

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMode is the permission set of every shim: rwx for the owner, r-x for group and other.
const FileMode os.FileMode = 0o755

// Environment variable and value that put the messenger binary into messenger mode.
const (
	EnvRole       = "SHELLMOCK_ROLE"
	RoleMessenger = "messenger"
)

// ErrInvalidName is returned for command names that cannot be used as a file name.
var ErrInvalidName = errors.New("invalid command name")

// FileWriter creates or truncates a file with the given content and permissions.
type FileWriter interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// OSWriter writes files to the local filesystem.
type OSWriter struct{}

// WriteFile creates or truncates name and forces perm regardless of the umask.
func (OSWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(name, data, perm); err != nil {
		return err
	}

	return os.Chmod(name, perm)
}

// Generator renders and writes shims.
type Generator struct {
	Messenger string     // Absolute path of the messenger executable
	Shebang   string     // Optional first line, e.g. "#!/bin/sh"
	Writer    FileWriter // Defaults to OSWriter
}

// Render returns the shim content for cmd: the shebang line (if any) followed by
// exactly one line invoking the messenger.
func (g *Generator) Render(cmd string) string {
	var b strings.Builder

	if g.Shebang != "" {
		b.WriteString(g.Shebang)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s=%s exec %s %s \"$@\"\n", EnvRole, RoleMessenger, Quote(g.Messenger), Quote(cmd))

	return b.String()
}

// Create writes the shim for cmd into dir and returns its path.
func (g *Generator) Create(dir, cmd string) (string, error) {
	if err := ValidateName(cmd); err != nil {
		return "", err
	}

	filename := filepath.Join(dir, cmd)
	if err := checkPathTraversal(dir, filename); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	if err := g.writer().WriteFile(filename, []byte(g.Render(cmd)), FileMode); err != nil {
		return "", fmt.Errorf("failed to write alias file %s: %w", filename, err)
	}

	return filename, nil
}

// CreateAll writes one shim per command, in order, and returns the created paths.
// It stops at the first failure.
func (g *Generator) CreateAll(dir string, cmds []string) ([]string, error) {
	paths := make([]string, 0, len(cmds))

	for _, cmd := range cmds {
		path, err := g.Create(dir, cmd)
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func (g *Generator) writer() FileWriter {
	if g.Writer == nil {
		return OSWriter{}
	}

	return g.Writer
}

// ValidateName checks that name can be used verbatim as a shim file name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}

	return nil
}

// Quote wraps s in single quotes so that a POSIX shell reads it literally.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func checkPathTraversal(root, target string) error {
	cleanRoot := filepath.Clean(root)
	cleanTarget := filepath.Clean(target)

	if filepath.Dir(cleanTarget) != cleanRoot {
		return fmt.Errorf("illegal file path: %s is not directly within %s", target, root)
	}

	return nil
}
