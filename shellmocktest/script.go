package shellmocktest

import (
	"os"
	"path/filepath"
)

// WriteScript writes body to an executable sh script in a temporary directory
// and returns its path.
func WriteScript(t T, body string) string {
	path := filepath.Join(t.TempDir(), "script.sh")

	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil { //nolint:gosec // scripts must be executable
		t.Errorf("failed to write script: %v", err)
		t.FailNow()
	}

	return path
}
