package shellmock

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/ruffel/shellmock/internal/ipc"
)

// controlSocketName is the control socket's file name inside the alias directory.
// The leading dot keeps it from ever matching a command name.
const controlSocketName = ".shellmock.sock"

// spawnSpec is the normalized input of the process spawner.
type spawnSpec struct {
	cmd     *Command
	env     []string
	stdio   []Stdio
	dir     string // alias directory
	control string // control socket path, empty when no ipc channel is configured
}

// normalizeInput builds the spawn input for cmd with dir prepended to PATH.
func normalizeInput(cmd *Command, cfg Options, dir string) *spawnSpec {
	spec := &spawnSpec{
		cmd:   cmd,
		stdio: normalizeStdio(cfg.StdioToken, cfg.StdioChannels),
		dir:   dir,
	}

	if slices.Contains(spec.stdio, StdioIPC) {
		spec.control = filepath.Join(dir, controlSocketName)
	}

	spec.env = normalizeEnv(cmd.Env, cfg.Environ, dir, spec.control)

	return spec
}

// normalizeStdio returns the channel list with the control channel enabled.
//
//   - nothing set: pipe, pipe, pipe, ipc
//   - a single token: token, token, token, ipc
//   - a list without ipc: the list with ipc appended
//   - a list with ipc: unchanged
func normalizeStdio(token Stdio, channels []Stdio) []Stdio {
	switch {
	case token != "":
		return []Stdio{token, token, token, StdioIPC}
	case len(channels) == 0:
		return []Stdio{StdioPipe, StdioPipe, StdioPipe, StdioIPC}
	case slices.Contains(channels, StdioIPC):
		return slices.Clone(channels)
	default:
		return append(slices.Clone(channels), StdioIPC)
	}
}

// normalizeEnv layers cmdEnv over ambient, rewrites PATH to start with dir and,
// when control is set, exports the control socket path.
func normalizeEnv(cmdEnv, ambient []string, dir, control string) []string {
	env := mergeEnv(ambient, cmdEnv)

	path := dir
	if current := envPathValue(cmdEnv, ambient); current != "" {
		path = dir + string(filepath.ListSeparator) + current
	}

	env = setEnv(env, "PATH", path)

	if control != "" {
		env = setEnv(env, ipc.EnvSocket, control)
	}

	return env
}

// envPathValue returns PATH from the command environment, else from the ambient
// environment, else the empty string.
func envPathValue(cmdEnv, ambient []string) string {
	if v, ok := lookupEnv(cmdEnv, "PATH"); ok && v != "" {
		return v
	}

	if v, ok := lookupEnv(ambient, "PATH"); ok {
		return v
	}

	return ""
}

// lookupEnv returns the last value of key in env.
func lookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(env[i], "=")
		if ok && k == key {
			return v, true
		}
	}

	return "", false
}

// mergeEnv combines environments; later entries override earlier ones while
// keeping the position of a key's first appearance.
func mergeEnv(envs ...[]string) []string {
	var (
		order  []string
		values = make(map[string]string)
	)

	for _, env := range envs {
		for _, kv := range env {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}

			if _, seen := values[k]; !seen {
				order = append(order, k)
			}

			values[k] = v
		}
	}

	merged := make([]string, 0, len(order))
	for _, k := range order {
		merged = append(merged, k+"="+values[k])
	}

	return merged
}

func setEnv(env []string, key, value string) []string {
	return mergeEnv(env, []string{key + "=" + value})
}
