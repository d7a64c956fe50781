package shellmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{
			name:   "success",
			result: Result{Code: 0},
			want:   true,
		},
		{
			name:   "non-zero exit",
			result: Result{Code: 127},
			want:   false,
		},
		{
			name:   "signaled",
			result: Result{Code: 0, Signal: "SIGKILL"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.Success())
		})
	}
}

func TestResult_Failed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{
			name:   "success",
			result: Result{Code: 0},
			want:   false,
		},
		{
			name:   "failed",
			result: Result{Code: 1},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.Failed())
		})
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "command only",
			cmd:  Command{Cmd: "ls"},
			want: "ls",
		},
		{
			name: "command with args",
			cmd:  Command{Cmd: "ls", Args: []string{"-la", "/tmp"}},
			want: "ls -la /tmp",
		},
		{
			name: "args with spaces",
			cmd:  Command{Cmd: "echo", Args: []string{"hello world", "foo"}},
			want: "echo \"hello world\" foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}

func TestCommand_ParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmdStr  string
		want    Command
		wantErr bool
	}{
		{
			name:   "simple command",
			cmdStr: "ls",
			want:   Command{Cmd: "ls", Args: []string{}},
		},
		{
			name:   "command with args",
			cmdStr: "ls -la /tmp",
			want:   Command{Cmd: "ls", Args: []string{"-la", "/tmp"}},
		},
		{
			name:   "quoted args",
			cmdStr: `echo "hello world" foo`,
			want:   Command{Cmd: "echo", Args: []string{"hello world", "foo"}},
		},
		{
			name:   "extra spaces",
			cmdStr: "  ls   -la   /tmp  ",
			want:   Command{Cmd: "ls", Args: []string{"-la", "/tmp"}},
		},
		{
			name:   "single quotes keep everything",
			cmdStr: `sh -c 'ls a 2'`,
			want:   Command{Cmd: "sh", Args: []string{"-c", "ls a 2"}},
		},
		{
			name:    "empty command",
			cmdStr:  "",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			cmdStr:  `echo "oops`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCommand(tt.cmdStr)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, &tt.want, got)
			}
		})
	}
}

func TestNewCommand(t *testing.T) {
	t.Parallel()

	cmd := NewCommand("ls", "-la", "/tmp")
	assert.Equal(t, "ls", cmd.Cmd)
	assert.Equal(t, []string{"-la", "/tmp"}, cmd.Args)
}

func TestShell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, &Command{Cmd: "sh", Args: []string{"-c", "ls a 2"}}, Shell("ls a 2"))
}

func TestCommand_Validate(t *testing.T) {
	t.Parallel()

	var nilCmd *Command

	require.Error(t, nilCmd.Validate())
	require.Error(t, (&Command{Cmd: "  "}).Validate())
	require.NoError(t, NewCommand("ls").Validate())
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("setup error", func(t *testing.T) {
		t.Parallel()

		err := &SetupError{Stage: "write alias files", Err: ErrRuntimeMocked}
		assert.Equal(t, "setup failed (write alias files): "+ErrRuntimeMocked.Error(), err.Error())
		require.ErrorIs(t, err, ErrRuntimeMocked)
	})

	t.Run("spawn error", func(t *testing.T) {
		t.Parallel()

		err := &SpawnError{Command: NewCommand("ls", "-la"), Err: ErrMissingMock}
		assert.Contains(t, err.Error(), `"ls -la"`)
		require.ErrorIs(t, err, ErrMissingMock)
	})

	t.Run("mock panic", func(t *testing.T) {
		t.Parallel()

		err := &MockPanicError{Cmd: "curl", Args: []string{"-s"}, Value: "boom"}
		assert.Contains(t, err.Error(), "curl")
		assert.Contains(t, err.Error(), "boom")
	})
}
