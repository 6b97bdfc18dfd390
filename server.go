package webserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tony-montemuro/webserver/internal/constructs"
	"github.com/tony-montemuro/webserver/message"
)

const (
	DefaultAddr            = "localhost:8080"
	DefaultMaxRequestBytes = 64 << 10

	// readChunk is how much the per-connection buffer grows by on each read.
	readChunk = 4 << 10

	maxAcceptDelay = time.Second
	drainTimeout   = 500 * time.Millisecond
)

var (
	ErrServerClosed = errors.New("webserver: server closed")
	ErrNoRouter     = errors.New("webserver: no router configured")
)

// Router answers a parsed request. *router.Router satisfies it.
type Router interface {
	Route(req *message.Request) message.Response
}

// Server accepts TCP connections and answers exactly one request on each.
type Server struct {
	Addr            string
	Router          Router
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int
	Logger          zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	active   sync.WaitGroup
}

func (s *Server) addr() string {
	if s.Addr == "" {
		return DefaultAddr
	}
	return s.Addr
}

func (s *Server) maxRequestBytes() int {
	if s.MaxRequestBytes <= 0 {
		return DefaultMaxRequestBytes
	}
	return s.MaxRequestBytes
}

func (s *Server) ListenAndServe() error {
	if s.isClosed() {
		return ErrServerClosed
	}

	ln, err := net.Listen("tcp", s.addr())
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.addr(), err)
	}

	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is shut down. It always
// returns a non-nil error; after Shutdown or Close that error is
// ErrServerClosed.
func (s *Server) Serve(ln net.Listener) error {
	if s.Router == nil {
		ln.Close()
		return ErrNoRouter
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.Logger.Info().Str("addr", ln.Addr().String()).Msg("listening for connections")

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay = backoff(delay)
			s.Logger.Error().Err(err).Dur("retry_in", delay).Msg("could not accept connection")
			time.Sleep(delay)
			continue
		}
		delay = 0

		if !s.track(conn) {
			conn.Close()
			return ErrServerClosed
		}
		go s.serveConn(conn)
	}
}

func backoff(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}

	delay *= 2
	if delay > maxAcceptDelay {
		return maxAcceptDelay
	}
	return delay
}

// Shutdown stops accepting connections and waits for in-flight ones to
// finish. If ctx ends first the remaining connections are closed and the
// context error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.closeListener()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		s.closeConns()
		return ctx.Err()
	}
}

// Close stops accepting connections and closes every open one immediately.
func (s *Server) Close() error {
	err := s.closeListener()
	s.closeConns()
	return err
}

func (s *Server) closeListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.listener == nil {
		return nil
	}

	err := s.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		conn.Close()
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	s.conns[conn] = struct{}{}
	s.active.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.active.Done()
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()

	start := time.Now()
	logger := s.Logger.With().
		Str("request_id", uuid.NewString()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	if s.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}

	raw, err := readRequest(conn, s.maxRequestBytes())
	if err != nil && !errors.Is(err, message.ErrRequestTooLarge) {
		if len(raw) == 0 {
			logger.Debug().Err(err).Msg("connection dropped before any data")
			return
		}
		logger.Debug().Err(err).Int("bytes", len(raw)).Msg("read ended early, parsing what arrived")
	}

	res, ok := s.respond(raw, err, logger)
	if !ok {
		logger.Debug().Msg("empty request, dropping connection")
		return
	}

	if s.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	if _, err := res.WriteTo(conn); err != nil {
		logger.Error().Err(err).Msg("could not write response")
		return
	}

	logger.Info().
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request served")

	if errors.Is(err, message.ErrRequestTooLarge) {
		drain(conn)
	}
}

// respond turns the raw bytes of a connection into a response. It reports
// false when there is nothing to answer.
func (s *Server) respond(raw []byte, readErr error, logger zerolog.Logger) (message.Response, bool) {
	if errors.Is(readErr, message.ErrRequestTooLarge) {
		logger.Warn().Int("limit", s.maxRequestBytes()).Msg("request too large")
		return badRequest(), true
	}

	req, err := message.ParseRequest(raw)
	if errors.Is(err, message.ErrEmptyRequest) {
		return message.Response{}, false
	}

	if err != nil {
		logger.Warn().Err(err).Msg("could not parse request")
		return message.ErrorResponse(err), true
	}

	logger.Debug().
		Str("method", req.Method.String()).
		Str("path", req.Resource.Path()).
		Msg("routing request")

	return s.Router.Route(req), true
}

func badRequest() message.Response {
	return message.NewResponse(message.StatusBadRequest, nil, message.StatusText(message.StatusBadRequest))
}

// readRequest reads until the header section is complete and, when a
// Content-Length was declared, until that many body bytes have arrived. It
// stops early on EOF or a read error. More than max bytes is reported as
// message.ErrRequestTooLarge; the data is never silently truncated.
func readRequest(r io.Reader, max int) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: int64(max) + 1}
	buf := make([]byte, 0, readChunk)

	for {
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), cap(buf)+readChunk)
			copy(grown, buf)
			buf = grown
		}

		n, err := lr.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]

		if len(buf) > max {
			return buf[:max], message.ErrRequestTooLarge
		}

		want, complete := expectedLength(buf)
		if want > max {
			return buf, message.ErrRequestTooLarge
		}
		if complete {
			return buf, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, err
		}
	}
}

// expectedLength reports the total request size implied by the header
// section and whether buf already holds all of it. It returns -1 while the
// header section is still incomplete.
func expectedLength(buf []byte) (int, bool) {
	end, size := constructs.HeaderEnd(buf)
	if end == -1 {
		return -1, false
	}

	want := end + size
	if n, ok := message.DeclaredLength(buf[:end]); ok {
		if n > math.MaxInt-want {
			return math.MaxInt, false
		}
		want += n
	}

	return want, len(buf) >= want
}

// drain half-closes conn and discards unread input for a short while, so
// the peer sees the response instead of a reset.
func drain(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(drainTimeout))
	io.Copy(io.Discard, io.LimitReader(conn, DefaultMaxRequestBytes))
}
