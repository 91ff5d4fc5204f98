package network

import (
	"time"

	"github.com/lixenwraith/blockfall/protocol"
)

// Config holds game listener configuration
type Config struct {
	// Address to bind; loopback by default
	Address string

	// Gravity interval; zero disables timed gravity (pieces fall only on move_down)
	TickInterval time.Duration

	// Inbound command delimiting
	Framing protocol.Framing

	// Send a game_over frame after the final snapshot
	AnnounceGameOver bool

	// Per-snapshot write deadline; zero disables
	WriteTimeout time.Duration

	// Piece selection seed; zero picks a random seed
	Seed uint64
}

// DefaultConfig returns the reference server settings
func DefaultConfig() *Config {
	return &Config{
		Address:          "127.0.0.1:12345",
		TickInterval:     500 * time.Millisecond,
		Framing:          protocol.FramingLine,
		AnnounceGameOver: true,
		WriteTimeout:     5 * time.Second,
	}
}

// DebugConfig returns defaults bound to addr with gravity disabled, for tests and manual play
func DebugConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Address = addr
	cfg.TickInterval = 0
	return cfg
}
