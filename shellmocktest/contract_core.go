package shellmocktest

import (
	"strings"

	"github.com/ruffel/shellmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coreContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryCore,
			Name:        "hello-world",
			Description: "An unmocked script runs and its output is captured.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				script := WriteScript(t, `echo "Hello World"`)

				res, err := spawn(t.Context(), shellmock.NewCommand("sh", script))
				require.NoError(t, err)
				require.NotNil(t, res)

				assert.Equal(t, 0, res.Code)
				assert.Empty(t, res.Signal)
				assert.Equal(t, "Hello World\n", res.Stdout)
				assert.Empty(t, res.Stderr)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "mocked-output",
			Description: "A mocked command reports the mock's code, stdout and stderr.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				rec := NewRecorder()
				rec.On("Call", "ls", []string{"a", "2"}).
					Return(shellmock.Output{Code: 127, Stdout: "MOCK_STDOUT", Stderr: "MOCK_STDERR"}).
					Once()

				res, err := spawn(t.Context(), shellmock.Shell("ls a 2"), shellmock.WithMocks(rec.Mocks("ls")))
				require.NoError(t, err)

				assert.Equal(t, 127, res.Code)
				assert.Equal(t, "MOCK_STDOUT", res.Stdout)
				assert.Equal(t, "MOCK_STDERR", res.Stderr)
				rec.AssertExpectations(t)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "exit-code-shorthand",
			Description: "A bare exit code response produces no output.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("ls"),
					shellmock.WithMock("ls", func(...string) shellmock.Response { return shellmock.ExitCode(42) }),
				)
				require.NoError(t, err)

				assert.Equal(t, 42, res.Code)
				assert.Empty(t, res.Stdout)
				assert.Empty(t, res.Stderr)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "repeated-calls",
			Description: "The same mock is served once per invocation, in order.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				rec := NewRecorder()
				rec.On("Call", "mv", []string{"x", "y"}).Return(shellmock.Stdout("first\n")).Once()
				rec.On("Call", "mv", []string{"c", "d"}).Return(shellmock.Stdout("second\n")).Once()

				res, err := spawn(t.Context(), shellmock.Shell("mv x y; mv c d"), shellmock.WithMocks(rec.Mocks("mv")))
				require.NoError(t, err)

				assert.Equal(t, "first\nsecond\n", res.Stdout)
				rec.AssertExpectations(t)
				rec.AssertNumberOfCalls(t, "Call", 2)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "mocked-target",
			Description: "A mocked command spawned directly is intercepted too.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				rec := NewRecorder()
				rec.On("Call", "ls", []string{"/"}).Return(shellmock.Stdout("MOCKED")).Once()

				res, err := spawn(t.Context(), shellmock.NewCommand("ls", "/"), shellmock.WithMocks(rec.Mocks("ls")))
				require.NoError(t, err)

				assert.Equal(t, "MOCKED", res.Stdout)
				rec.AssertExpectations(t)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "mixed-real-and-mocked",
			Description: "Unmocked commands in a pipeline still run for real.",
			Prereq:      needsShell,
			Run: func(t T, spawn SpawnFunc) {
				res, err := spawn(t.Context(), shellmock.Shell("curl -s example.org | grep Frog"),
					shellmock.WithMock("curl", func(...string) shellmock.Response {
						return shellmock.Stdout(strings.Join([]string{"Apple", "Frog", "Banana", ""}, "\n"))
					}),
				)
				require.NoError(t, err)

				assert.Equal(t, 0, res.Code)
				assert.Equal(t, "Frog\n", res.Stdout)
			},
		},
	}
}
