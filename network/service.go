package network

import (
	"context"
	"log"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/lixenwraith/blockfall/service"
	"github.com/lixenwraith/blockfall/status"
)

// Service wraps Server as a hub-managed service
// Done closes when the single session ends or the listener fails
type Service struct {
	config   *Config
	registry *status.Registry
	logger   *log.Logger
	server   *Server

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// NewService creates the game listener service with default config
func NewService(reg *status.Registry, logger *log.Logger) *Service {
	return &Service{
		config:   DefaultConfig(),
		registry: reg,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "network"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Picks up a *Config from args, overriding the default
func (s *Service) Init(args ...any) error {
	if cfg, ok := service.ArgOf[*Config](args); ok && cfg != nil {
		s.config = cfg
	}
	s.server = NewServer(s.config, s.registry, s.logger)
	return nil
}

// Start implements service.Service
// Binds synchronously so setup failures surface before any game logic runs
func (s *Service) Start() error {
	if s.server == nil {
		return errors.New("network: Start called before Init")
	}
	if err := s.server.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		err := s.server.Serve(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrServerClosed) {
			err = nil
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}()
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := s.server.Close()
	<-s.done
	return err
}

// Done implements service.Waiter
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Err implements service.Waiter; valid after Done is closed
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Addr returns the listening address while waiting for the client
func (s *Service) Addr() net.Addr {
	if s.server == nil {
		return nil
	}
	return s.server.Addr()
}
