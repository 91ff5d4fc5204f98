// Package config loads server settings from defaults and an optional TOML file.
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/blockfall/network"
	"github.com/lixenwraith/blockfall/protocol"
	"github.com/lixenwraith/blockfall/statusapi"
)

// Config mirrors the TOML file layout
type Config struct {
	Server ServerConfig `toml:"server"`
	Game   GameConfig   `toml:"game"`
	Status StatusConfig `toml:"status"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds the game listener settings
type ServerConfig struct {
	Address          string           `toml:"address"`
	Framing          protocol.Framing `toml:"framing"`
	AnnounceGameOver bool             `toml:"announce_game_over"`
	WriteTimeout     time.Duration    `toml:"write_timeout"`
}

// GameConfig holds gameplay settings
type GameConfig struct {
	// Zero disables timed gravity
	TickInterval time.Duration `toml:"tick_interval"`
	// Zero picks a random seed per session
	Seed uint64 `toml:"seed"`
}

// StatusConfig holds the HTTP status endpoint settings; empty address disables it
type StatusConfig struct {
	Address string `toml:"address"`
}

// LogConfig holds debug log file settings
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	nc := network.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Address:          nc.Address,
			Framing:          nc.Framing,
			AnnounceGameOver: nc.AnnounceGameOver,
			WriteTimeout:     nc.WriteTimeout,
		},
		Game: GameConfig{
			TickInterval: nc.TickInterval,
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// Load returns defaults overlaid with the file at path; an empty path returns defaults
// Unknown keys are rejected
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and address syntax
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return fmt.Errorf("server.address: %w", err)
	}
	if c.Status.Address != "" {
		if _, _, err := net.SplitHostPort(c.Status.Address); err != nil {
			return fmt.Errorf("status.address: %w", err)
		}
	}
	if c.Game.TickInterval < 0 {
		return fmt.Errorf("game.tick_interval must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must not be negative")
	}
	if c.Log.Debug && c.Log.Dir == "" {
		return fmt.Errorf("log.dir required when log.debug is set")
	}
	return nil
}

// Network converts to the listener configuration
func (c *Config) Network() *network.Config {
	return &network.Config{
		Address:          c.Server.Address,
		TickInterval:     c.Game.TickInterval,
		Framing:          c.Server.Framing,
		AnnounceGameOver: c.Server.AnnounceGameOver,
		WriteTimeout:     c.Server.WriteTimeout,
		Seed:             c.Game.Seed,
	}
}

// StatusAPI converts to the status endpoint configuration
func (c *Config) StatusAPI() *statusapi.Config {
	return &statusapi.Config{
		Address: c.Status.Address,
	}
}
