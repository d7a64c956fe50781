package shellmocktest

import (
	"path/filepath"
	"strings"

	"github.com/ruffel/shellmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func environmentContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryEnvironment,
			Name:        "alias-dir-first-on-path",
			Description: "The first PATH entry is the alias directory; the rest is preserved.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				cmd := shellmock.Shell(`printf '%s' "$PATH"`)
				cmd.Env = []string{"PATH=/usr/bin:/bin"}

				res, err := spawn(t.Context(), cmd)
				require.NoError(t, err)

				first, rest, found := strings.Cut(res.Stdout, ":")
				require.True(t, found, "PATH %q has a single entry", res.Stdout)
				assert.True(t, strings.HasPrefix(filepath.Base(first), shellmock.AliasDirPrefix))
				assert.Equal(t, "/usr/bin:/bin", rest)
			},
		},
		{
			Category:    CategoryEnvironment,
			Name:        "custom-env",
			Description: "Variables from the command reach the target.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				cmd := shellmock.Shell(`echo "$SHELLMOCK_CONTRACT"`)
				cmd.Env = []string{"SHELLMOCK_CONTRACT=present"}

				res, err := spawn(t.Context(), cmd)
				require.NoError(t, err)

				assert.Equal(t, "present\n", res.Stdout)
			},
		},
		{
			Category:    CategoryEnvironment,
			Name:        "working-directory",
			Description: "The target runs in the command's directory.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				dir := t.TempDir()

				cmd := shellmock.Shell("pwd -P")
				cmd.Dir = dir

				res, err := spawn(t.Context(), cmd)
				require.NoError(t, err)

				want, err := filepath.EvalSymlinks(dir)
				require.NoError(t, err)
				assert.Equal(t, want+"\n", res.Stdout)
			},
		},
		{
			Category:    CategoryEnvironment,
			Name:        "mock-visible-on-path",
			Description: "command -v resolves a mocked name inside the alias directory.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("command -v kubectl"),
					shellmock.WithMock("kubectl", func(...string) shellmock.Response { return nil }),
				)
				require.NoError(t, err)

				dir := filepath.Dir(strings.TrimSpace(res.Stdout))
				assert.True(t, strings.HasPrefix(filepath.Base(dir), shellmock.AliasDirPrefix))
				assert.NoDirExists(t, dir)
			},
		},
	}
}
