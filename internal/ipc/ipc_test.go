package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketPath returns a short socket path; t.TempDir can exceed the sun_path limit on macOS.
func socketPath(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "smipc")
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	return filepath.Join(dir, "ctl.sock")
}

func TestNewID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 1000 {
		id := NewID()
		require.True(t, strings.HasPrefix(id, IDPrefix), id)
		require.False(t, seen[id], "duplicate id %s", id)

		seen[id] = true
	}
}

func TestParseRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		wantOK bool
		want   Request
	}{
		{
			name:   "valid",
			line:   `{"id":"SHELL__MOCK__ID__1","cmd":"mv","args":["YQ==","Yg=="]}`,
			wantOK: true,
			want:   Request{ID: "SHELL__MOCK__ID__1", Cmd: "mv", Args: PackArgs([]string{"a", "b"})},
		},
		{
			name:   "missing args",
			line:   `{"id":"SHELL__MOCK__ID__2","cmd":"ls"}`,
			wantOK: true,
			want:   Request{ID: "SHELL__MOCK__ID__2", Cmd: "ls", Args: [][]byte{}},
		},
		{name: "foreign id", line: `{"id":"bloopbloop","cmd":"ls"}`},
		{name: "args not base64", line: `{"id":"SHELL__MOCK__ID__3","cmd":"ls","args":["%%"]}`},
		{name: "numeric id", line: `{"id":42,"cmd":"ls"}`},
		{name: "no id", line: `{"hello":"world"}`},
		{name: "not json", line: `PING`},
		{name: "empty", line: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRequest([]byte(tt.line))
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRoundtrip_IgnoresMismatchedReplies(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	req := Request{ID: NewID(), Cmd: "mv", Args: PackArgs([]string{"a", "b"})}

	go func() {
		r := bufio.NewReader(server)

		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}

		var got Request
		if json.Unmarshal(line, &got) != nil {
			return
		}

		stale, _ := encode(Reply{ID: "bloopbloop", Stdout: []byte("Electric"), Code: 1})
		match, _ := encode(Reply{ID: got.ID, Cmd: got.Cmd, Stdout: []byte("Boogaloo"), Code: 3})

		_, _ = server.Write([]byte("garbage\n"))
		_, _ = server.Write(stale)
		_, _ = server.Write(match)
	}()

	reply, err := Roundtrip(client, req)
	require.NoError(t, err)
	assert.Equal(t, req.ID, reply.ID)
	assert.Equal(t, []byte("Boogaloo"), reply.Stdout)
	assert.Equal(t, 3, reply.Code)
}

func TestRoundtrip_ChannelClosed(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()

	go func() {
		_, _ = bufio.NewReader(server).ReadBytes('\n')
		_ = server.Close()
	}()

	_, err := Roundtrip(client, Request{ID: NewID(), Cmd: "ls"})
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []Request
	)

	srv, err := Listen(socketPath(t), func(_ context.Context, req Request) (Reply, error) {
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		return Reply{Code: 127, Stdout: []byte(strings.Join(UnpackArgs(req.Args), ",")), Stderr: []byte("err\n ")}, nil
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close() })

	conn, err := Dial(srv.Addr())
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	req := Request{ID: NewID(), Cmd: "ls", Args: PackArgs([]string{"-l", "a b"})}

	reply, err := Roundtrip(conn, req)
	require.NoError(t, err)

	assert.Equal(t, Reply{ID: req.ID, Cmd: "ls", Code: 127, Stdout: []byte("-l,a b"), Stderr: []byte("err\n ")}, reply)

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, seen, 1)
	assert.Equal(t, req, seen[0])
}

func TestServer_IgnoresForeignTraffic(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv, err := Listen(socketPath(t), func(_ context.Context, _ Request) (Reply, error) {
		calls.Add(1)

		return Reply{}, nil
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close() })

	conn, err := Dial(srv.Addr())
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	_, err = conn.Write([]byte("{\"id\":\"other\"}\nnot json\n{\"id\":7}\n"))
	require.NoError(t, err)

	// A valid request on the same connection is still served afterwards.
	reply, err := Roundtrip(conn, Request{ID: NewID(), Cmd: "true"})
	require.NoError(t, err)
	assert.Equal(t, "true", reply.Cmd)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServer_HandlerErrorDropsConnection(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reported := make(chan error, 1)

	srv, err := Listen(socketPath(t), func(_ context.Context, _ Request) (Reply, error) {
		return Reply{}, boom
	}, func(err error) { reported <- err })
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close() })

	conn, err := Dial(srv.Addr())
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	_, err = Roundtrip(conn, Request{ID: NewID(), Cmd: "ls"})
	require.ErrorIs(t, err, ErrChannelClosed)
	require.ErrorIs(t, <-reported, boom)
}

func TestServer_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := socketPath(t)

	srv, err := Listen(path, func(_ context.Context, _ Request) (Reply, error) {
		return Reply{}, nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())

	_, err = Dial(path)
	require.Error(t, err)
}

func TestDial_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Dial("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSocket)
}

func TestServer_RoundtripPreservesBytes(t *testing.T) {
	t.Parallel()

	binary := "\x1f\x8b\x08\xff\x00\xfe"

	srv, err := Listen(socketPath(t), func(_ context.Context, req Request) (Reply, error) {
		// Echo the first argument on stdout and its reverse on stderr.
		arg := req.Args[0]
		reversed := make([]byte, len(arg))

		for i, b := range arg {
			reversed[len(arg)-1-i] = b
		}

		return Reply{Stdout: arg, Stderr: reversed}, nil
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close() })

	conn, err := Dial(srv.Addr())
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	reply, err := Roundtrip(conn, Request{ID: NewID(), Cmd: "gzip", Args: PackArgs([]string{binary})})
	require.NoError(t, err)

	assert.Equal(t, []byte(binary), reply.Stdout)
	assert.Equal(t, []byte("\xfe\x00\xff\x08\x8b\x1f"), reply.Stderr)
}

func TestPackArgs(t *testing.T) {
	t.Parallel()

	args := []string{"\xff", "", "two words"}

	assert.Equal(t, args, UnpackArgs(PackArgs(args)))
	assert.Empty(t, UnpackArgs(PackArgs(nil)))
}
