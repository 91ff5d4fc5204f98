package network

import (
	"context"
	"log"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/lixenwraith/blockfall/game"
	"github.com/lixenwraith/blockfall/status"
)

// ErrServerClosed is returned by Serve after Close
var ErrServerClosed = errors.New("network: server closed")

// Server accepts exactly one client and runs a single game session on it
type Server struct {
	config   *Config
	registry *status.Registry
	logger   *log.Logger
	gameOpts []game.Option

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServer creates a server; nil registry or logger fall back to private/default ones
func NewServer(cfg *Config, reg *status.Registry, logger *log.Logger, opts ...game.Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		config:   cfg,
		registry: reg,
		logger:   logger,
		gameOpts: opts,
	}
}

// Listen binds the configured address
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.config.Address)
	}
	s.listener = ln
	s.logger.Printf("listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, or nil before Listen and after accept
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve waits for one client, releases the listener, and runs the session to completion
// Cancelling ctx aborts the accept or ends the running session
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln, closed := s.listener, s.closed
	s.mu.Unlock()
	if closed {
		return ErrServerClosed
	}
	if ln == nil {
		return errors.New("network: Serve called before Listen")
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	conn, err := ln.Accept()
	stop()
	s.releaseListener()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.isClosed() {
			return ErrServerClosed
		}
		return errors.Wrap(err, "accept")
	}

	s.logger.Printf("client connected from %s", conn.RemoteAddr())
	session := NewSession(conn, s.config, s.registry, s.logger, s.sessionOpts()...)
	return session.Run(ctx)
}

// ListenAndServe binds then serves one session
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Close releases the listener; a session already running is ended by its context
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.releaseListener()
}

func (s *Server) sessionOpts() []game.Option {
	opts := make([]game.Option, 0, len(s.gameOpts)+1)
	if s.config.Seed != 0 {
		opts = append(opts, game.WithSeed(s.config.Seed))
	}
	return append(opts, s.gameOpts...)
}

func (s *Server) releaseListener() error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Wrap(err, "close listener")
	}
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
