package statusapi

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/blockfall/service"
	"github.com/lixenwraith/blockfall/status"
)

// Config holds status endpoint settings
type Config struct {
	// Empty disables the endpoint
	Address string
}

// Service runs the HTTP status endpoint as a hub-managed service
type Service struct {
	config   *Config
	registry *status.Registry
	logger   *log.Logger

	server   *http.Server
	listener net.Listener
	disabled atomic.Bool
}

// NewService creates a status service (disabled until configured with an address)
func NewService(reg *status.Registry, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		config:   &Config{},
		registry: reg,
		logger:   logger,
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "status"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Service) Init(args ...any) error {
	if cfg, ok := service.ArgOf[*Config](args); ok && cfg != nil {
		s.config = cfg
	}
	s.disabled.Store(s.config.Address == "")
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           NewRouter(s.registry, s.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("status endpoint: %v", err)
		}
	}()
	s.logger.Printf("status endpoint on http://%s/api/status", ln.Addr())
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address, nil when disabled or not started
func (s *Service) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
