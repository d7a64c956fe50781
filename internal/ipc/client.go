package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// ErrChannelClosed is returned when the control channel closes before a matching reply arrives.
var ErrChannelClosed = errors.New("control channel closed before a reply arrived")

// Dial connects to the control socket at path.
func Dial(path string) (net.Conn, error) {
	if path == "" {
		return nil, fmt.Errorf("control channel unavailable: %s is not set", EnvSocket)
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to control channel: %w", err)
	}

	return conn, nil
}

// Roundtrip sends req and blocks until a Reply with the same id arrives.
// Messages with any other id, or that are not replies at all, are skipped.
func Roundtrip(rw io.ReadWriter, req Request) (Reply, error) {
	data, err := encode(req)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to encode request: %w", err)
	}

	if _, err := rw.Write(data); err != nil {
		return Reply{}, fmt.Errorf("failed to send request: %w", err)
	}

	r := bufio.NewReader(rw)

	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			var reply Reply
			if err := json.Unmarshal(line, &reply); err == nil && reply.ID == req.ID {
				return reply, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return Reply{}, ErrChannelClosed
			}

			return Reply{}, fmt.Errorf("failed to read reply: %w", readErr)
		}
	}
}
