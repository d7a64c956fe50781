// Package ipc implements the control channel between a spawned process tree and
// the test process: newline-delimited JSON messages over a Unix domain socket.
//
// A messenger sends one Request and waits for the Reply with the same ID.
package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDPrefix marks correlation ids that belong to this protocol.
const IDPrefix = "SHELL__MOCK__ID__"

// EnvSocket names the environment variable holding the control socket path.
const EnvSocket = "SHELLMOCK_SOCKET"

// Request asks the parent for the result of one mocked invocation.
// Args travel as base64 so that arbitrary bytes survive the JSON encoding.
type Request struct {
	ID   string   `json:"id"`
	Cmd  string   `json:"cmd"`
	Args [][]byte `json:"args"`
}

// Reply carries the result of a mocked invocation back to the messenger.
// Stdout and Stderr travel as base64 and are replayed byte for byte.
type Reply struct {
	ID     string `json:"id"`
	Cmd    string `json:"cmd"`
	Code   int    `json:"code"`
	Stdout []byte `json:"stdout"`
	Stderr []byte `json:"stderr"`
}

// PackArgs converts command-line arguments to their wire form.
func PackArgs(args []string) [][]byte {
	packed := make([][]byte, len(args))

	for i, arg := range args {
		packed[i] = []byte(arg)
	}

	return packed
}

// UnpackArgs converts wire arguments back to strings.
func UnpackArgs(args [][]byte) []string {
	unpacked := make([]string, len(args))

	for i, arg := range args {
		unpacked[i] = string(arg)
	}

	return unpacked
}

var sequence atomic.Uint64

// NewID returns a correlation id: the prefix, the pid, a per-process sequence
// number and a random UUID.
func NewID() string {
	return fmt.Sprintf("%s%d-%d-%s", IDPrefix, os.Getpid(), sequence.Add(1), uuid.NewString())
}

// ParseRequest decodes line as a Request. ok is false for anything that is not a
// request of this protocol: malformed JSON, a missing or non-string id, or an id
// without IDPrefix.
func ParseRequest(line []byte) (Request, bool) {
	var envelope struct {
		ID json.RawMessage `json:"id"`
	}

	if err := json.Unmarshal(line, &envelope); err != nil {
		return Request{}, false
	}

	var id string
	if err := json.Unmarshal(envelope.ID, &id); err != nil || !strings.HasPrefix(id, IDPrefix) {
		return Request{}, false
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{}, false
	}

	if req.Args == nil {
		req.Args = [][]byte{}
	}

	return req, true
}

// encode renders v as a single JSON line.
func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}
