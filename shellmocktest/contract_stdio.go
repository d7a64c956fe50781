package shellmocktest

import (
	"github.com/ruffel/shellmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stdioContracts() []TestCase {
	const script = "echo out; echo err >&2"

	return []TestCase{
		{
			Category:    CategoryStdio,
			Name:        "ignore-all",
			Description: "Ignored channels are not captured.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell(script), shellmock.WithStdio(shellmock.StdioIgnore))
				require.NoError(t, err)

				assert.Empty(t, res.Stdout)
				assert.Empty(t, res.Stderr)
			},
		},
		{
			Category:    CategoryStdio,
			Name:        "per-channel",
			Description: "Channels are configured by position.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell(script),
					shellmock.WithStdioChannels(shellmock.StdioIgnore, shellmock.StdioPipe, shellmock.StdioIgnore),
				)
				require.NoError(t, err)

				assert.Equal(t, "out\n", res.Stdout)
				assert.Empty(t, res.Stderr)
			},
		},
		{
			Category:    CategoryStdio,
			Name:        "mocks-work-without-pipes",
			Description: "Interception does not depend on the stdio configuration.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("ls"),
					shellmock.WithStdio(shellmock.StdioIgnore),
					shellmock.WithMock("ls", func(...string) shellmock.Response { return shellmock.ExitCode(9) }),
				)
				require.NoError(t, err)

				assert.Equal(t, 9, res.Code)
			},
		},
	}
}
