package shellmock

import (
	"testing"

	"github.com/ruffel/shellmock/internal/ipc"
	"github.com/stretchr/testify/assert"
)

const tempDir = "/var/folders/tmp"

func TestNormalizeStdio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    Stdio
		channels []Stdio
		want     []Stdio
	}{
		{
			name: "defaults",
			want: []Stdio{StdioPipe, StdioPipe, StdioPipe, StdioIPC},
		},
		{
			name:  "single token is broadcast",
			token: StdioInherit,
			want:  []Stdio{StdioInherit, StdioInherit, StdioInherit, StdioIPC},
		},
		{
			name:     "ipc is appended",
			channels: []Stdio{StdioIgnore, "", StdioInherit, StdioInherit, StdioPipe},
			want:     []Stdio{StdioIgnore, "", StdioInherit, StdioInherit, StdioPipe, StdioIPC},
		},
		{
			name:     "ipc already present",
			channels: []Stdio{StdioIgnore, "", StdioInherit, StdioIPC, StdioPipe},
			want:     []Stdio{StdioIgnore, "", StdioInherit, StdioIPC, StdioPipe},
		},
		{
			name:     "token wins over channels",
			token:    StdioIgnore,
			channels: []Stdio{StdioPipe},
			want:     []Stdio{StdioIgnore, StdioIgnore, StdioIgnore, StdioIPC},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeStdio(tt.token, tt.channels))
		})
	}
}

func TestNormalizeStdio_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	channels := make([]Stdio, 3, 8)
	copy(channels, []Stdio{StdioPipe, StdioPipe, StdioPipe})

	got := normalizeStdio("", channels)
	got[0] = StdioIgnore

	assert.Equal(t, []Stdio{StdioPipe, StdioPipe, StdioPipe}, channels)
}

func TestEnvPathValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmdEnv  []string
		ambient []string
		want    string
	}{
		{"custom PATH", []string{"PATH=MOCK_PATH_VALUE"}, []string{"PATH=/usr/bin"}, "MOCK_PATH_VALUE"},
		{"ambient PATH", nil, []string{"HOME=/root", "PATH=MOCK_PATH_VALUE"}, "MOCK_PATH_VALUE"},
		{"empty custom PATH falls back", []string{"PATH="}, []string{"PATH=MOCK_PATH_VALUE"}, "MOCK_PATH_VALUE"},
		{"no PATH anywhere", []string{"A=b"}, []string{"HOME=/root"}, ""},
		{"last value wins", nil, []string{"PATH=/a", "PATH=/b"}, "/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envPathValue(tt.cmdEnv, tt.ambient))
		})
	}
}

func TestNormalizeEnv(t *testing.T) {
	t.Parallel()

	t.Run("prepends the alias directory", func(t *testing.T) {
		t.Parallel()

		env := normalizeEnv(nil, []string{"HOME=/root", "PATH=MOCK_PATH_VALUE"}, tempDir, "")
		assert.Equal(t, []string{"HOME=/root", "PATH=" + tempDir + ":MOCK_PATH_VALUE"}, env)
	})

	t.Run("alias directory alone without PATH", func(t *testing.T) {
		t.Parallel()

		env := normalizeEnv(nil, nil, tempDir, "")
		assert.Equal(t, []string{"PATH=" + tempDir}, env)
	})

	t.Run("command env overrides ambient", func(t *testing.T) {
		t.Parallel()

		env := normalizeEnv(
			[]string{"HOME=/home/me", "PATH=/custom", "EXTRA=1"},
			[]string{"HOME=/root", "PATH=/usr/bin"},
			tempDir,
			"/var/folders/tmp/.shellmock.sock",
		)

		assert.Equal(t, []string{
			"HOME=/home/me",
			"PATH=" + tempDir + ":/custom",
			"EXTRA=1",
			ipc.EnvSocket + "=/var/folders/tmp/.shellmock.sock",
		}, env)
	})
}

func TestNormalizeInput(t *testing.T) {
	t.Parallel()

	cmd := NewCommand("ls", "a", "2")
	cfg := Options{Environ: []string{"PATH=MOCK_PATH_VALUE"}}

	spec := normalizeInput(cmd, cfg, tempDir)

	assert.Same(t, cmd, spec.cmd)
	assert.Equal(t, []Stdio{StdioPipe, StdioPipe, StdioPipe, StdioIPC}, spec.stdio)
	assert.Equal(t, tempDir, spec.dir)
	assert.Equal(t, tempDir+"/"+controlSocketName, spec.control)
	assert.Equal(t, []string{
		"PATH=" + tempDir + ":MOCK_PATH_VALUE",
		ipc.EnvSocket + "=" + tempDir + "/" + controlSocketName,
	}, spec.env)

	// The caller's command is not modified.
	assert.Equal(t, []string{"a", "2"}, cmd.Args)
	assert.Nil(t, cmd.Env)
}

func TestMergeEnv_SkipsMalformed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A=1", "B=3"}, mergeEnv([]string{"A=1", "garbage", "B=2"}, []string{"B=3"}))
}
