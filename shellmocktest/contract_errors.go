package shellmocktest

import (
	"os"
	"path/filepath"

	"github.com/ruffel/shellmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryErrors,
			Name:        "runtime-mocked",
			Description: "Mocking the messenger executable is rejected before anything runs.",
			Run: func(t T, spawn SpawnFunc) {
				exe, err := os.Executable()
				require.NoError(t, err)

				res, err := spawn(t.Context(), shellmock.Shell("true"),
					shellmock.WithMock(filepath.Base(exe), func(...string) shellmock.Response { return nil }),
				)
				require.ErrorIs(t, err, shellmock.ErrRuntimeMocked)
				assert.Nil(t, res)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "executable-not-found",
			Description: "A missing executable is a setup error.",
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.NewCommand("shellmock-contract-missing-binary"))

				var setupErr *shellmock.SetupError
				require.ErrorAs(t, err, &setupErr)
				assert.Nil(t, res)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "mock-panic",
			Description: "A panicking mock fails the run instead of crashing the caller.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("curl; sleep 5"),
					shellmock.WithMock("curl", func(...string) shellmock.Response { panic("contract") }),
				)

				var panicErr *shellmock.MockPanicError
				require.ErrorAs(t, err, &panicErr)
				assert.Nil(t, res)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "non-zero-exit-is-not-an-error",
			Description: "A failing target produces a result, not an error.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("exit 3"))
				require.NoError(t, err)

				assert.Equal(t, 3, res.Code)
				assert.True(t, res.Failed())
			},
		},
	}
}
