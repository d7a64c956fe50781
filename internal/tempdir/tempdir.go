// Package tempdir allocates the per-run alias directories.
package tempdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Allocator creates directories under Root (os.TempDir when empty).
type Allocator struct {
	Root string
}

// Dir is a temporary directory that is removed, contents included, at most once.
type Dir struct {
	path string
	once sync.Once
	err  error
}

// Create makes a uniquely named directory whose name starts with prefix.
func (a Allocator) Create(prefix string) (*Dir, error) {
	path, err := os.MkdirTemp(a.Root, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	// Resolve symlinks (e.g. /var -> /private/var on macOS) so PATH entries
	// and socket paths are stable.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Remove deletes the directory even when it is not empty.
// Subsequent calls return the result of the first one.
func (d *Dir) Remove() error {
	d.once.Do(func() {
		if err := os.RemoveAll(d.path); err != nil {
			d.err = fmt.Errorf("failed to remove temporary directory %s: %w", d.path, err)
		}
	})

	return d.err
}
