package shellmocktest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Not parallel: modifies PATH.
func TestNeedsShell(t *testing.T) {
	ok, reason := needsShell(t)
	assert.True(t, ok, reason)

	t.Setenv("PATH", t.TempDir())

	ok, reason = needsShell(t)
	assert.False(t, ok)
	assert.Contains(t, reason, "sh")
}

func TestAllContracts_ShellPrereqs(t *testing.T) {
	t.Parallel()

	// Only contracts that never start a shell may run without one.
	noShell := map[string]bool{
		"errors/runtime-mocked":       true,
		"errors/executable-not-found": true,
	}

	for _, tc := range AllContracts() {
		assert.Equal(t, !noShell[tc.ID()], tc.Prereq != nil, tc.ID())
	}
}
