package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/vowin/internal/runtimepath"
)

// Dispatcher executes a validated request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request) *Response
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, req *Request) *Response

func (f DispatcherFunc) Dispatch(ctx context.Context, req *Request) *Response {
	return f(ctx, req)
}

// Server handles IPC requests from clients. It runs as a supervised
// service: Serve listens until its context is cancelled.
type Server struct {
	socketPath string
	dispatcher Dispatcher
	logger     *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewServer creates a server on the default socket path.
func NewServer(dispatcher Dispatcher, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerWithPath(socketPath, dispatcher, logger), nil
}

// NewServerWithPath creates a server on socketPath.
func NewServerWithPath(socketPath string, dispatcher Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		dispatcher: dispatcher,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Ready is closed once the socket accepts connections.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Serve listens for connections until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("ipc server listening", "socket", s.socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	defer os.Remove(s.socketPath)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			s.logger.Warn("ipc accept error", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) String() string { return "ipc-server" }

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.handleCommand(ctx, req))
}

// handleCommand rejects unknown commands and hands the rest to the
// dispatcher.
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	if !req.Command.Known() {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
	s.logger.Debug("ipc request", "command", req.Command)

	resp := s.dispatcher.Dispatch(ctx, req)
	if resp == nil {
		resp, _ = NewOKResponse(nil)
	}
	return resp
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}
