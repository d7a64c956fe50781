package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Handler produces the reply for one request. Returning an error drops the
// connection without replying and reports the error through the server's ErrorFunc.
type Handler func(ctx context.Context, req Request) (Reply, error)

// ErrorFunc receives handler and transport failures.
type ErrorFunc func(err error)

// Server accepts messenger connections on a Unix domain socket.
// Each connection is served in its own goroutine.
type Server struct {
	ln      net.Listener
	handler Handler
	onError ErrorFunc

	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// Listen creates the socket at path and starts serving in the background.
// onError may be nil.
func Listen(path string, handler Handler, onError ErrorFunc) (*Server, error) {
	if handler == nil {
		return nil, errors.New("ipc handler cannot be nil")
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open control channel: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		ln:      ln,
		handler: handler,
		onError: onError,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[net.Conn]struct{}),
	}

	s.wg.Add(1)

	go s.acceptLoop()

	return s, nil
}

// Addr returns the socket path.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close stops accepting, closes open connections and waits for in-flight handlers.
// It is safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return nil
	}

	s.closed = true
	err := s.ln.Close()

	for conn := range s.conns {
		_ = conn.Close()
	}

	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.isClosed() {
				s.report(fmt.Errorf("control channel accept failed: %w", err))
			}

			return
		}

		if !s.track(conn) {
			_ = conn.Close()

			return
		}

		s.wg.Add(1)

		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)

	for {
		line, readErr := r.ReadBytes('\n')

		if req, ok := ParseRequest(line); ok {
			reply, err := s.handler(s.ctx, req)
			if err != nil {
				s.report(err)

				return
			}

			reply.ID = req.ID
			reply.Cmd = req.Cmd

			data, err := encode(reply)
			if err != nil {
				s.report(fmt.Errorf("failed to encode reply for %q: %w", req.Cmd, err))

				return
			}

			if _, err := conn.Write(data); err != nil {
				return
			}
		}

		if readErr != nil {
			return
		}
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.conns[conn] = struct{}{}

	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *Server) report(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
