// Package config provides YAML-based server configuration loading for
// the game server.
package config

import (
	"time"

	"github.com/RishithSahu/FunSnakes/internal/game"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	TLS    TLSConfig    `yaml:"tls"`
	World  WorldConfig  `yaml:"world"`
}

// ServerConfig covers listeners, capacity and persistence.
type ServerConfig struct {
	// Listen is the TCP host:port for game clients.
	Listen string `yaml:"listen"`

	// WSListen is the optional HTTP host:port serving the /ws WebSocket
	// endpoint for browser clients. Empty disables it.
	WSListen string `yaml:"ws_listen"`

	// MaxPlayers caps concurrent connections; joins beyond it are
	// rejected with an error frame.
	MaxPlayers int `yaml:"max_players"`

	// DB is the identity/leaderboard database path. Empty keeps the
	// registry memory-only.
	DB string `yaml:"db"`
}

// TLSConfig wraps the TCP listener in TLS when enabled. The server only
// presents the certificate; peers are never verified.
type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

// WorldConfig exposes the simulation rules.
type WorldConfig struct {
	Size            float64 `yaml:"size"`
	FoodCount       int     `yaml:"food_count"`
	TickMS          int     `yaml:"tick_ms"`
	BroadcastEvery  int     `yaml:"broadcast_every"`
	SnakeSpeed      float64 `yaml:"snake_speed"`
	BaseLength      int     `yaml:"base_length"`
	MaxLength       int     `yaml:"max_length"`
	SegmentSpacing  float64 `yaml:"segment_spacing"`
	SnakeRadius     float64 `yaml:"snake_radius"`
	FoodRadius      float64 `yaml:"food_radius"`
	RespawnDelayS   int     `yaml:"respawn_delay_s"`
	GracePeriodS    int     `yaml:"grace_period_s"`
	KillBonus       int     `yaml:"kill_bonus"`
	SpawnAttempts   int     `yaml:"spawn_attempts"`
	SpawnSeparation float64 `yaml:"spawn_separation"`
}

// TickPeriod returns the simulation tick interval.
func (w WorldConfig) TickPeriod() time.Duration {
	return time.Duration(w.TickMS) * time.Millisecond
}

// Params converts the world section into simulation parameters.
func (w WorldConfig) Params() game.Params {
	return game.Params{
		WorldSize:       w.Size,
		FoodCount:       w.FoodCount,
		SnakeSpeed:      w.SnakeSpeed,
		BaseLength:      w.BaseLength,
		MaxLength:       w.MaxLength,
		SegmentSpacing:  w.SegmentSpacing,
		SnakeRadius:     w.SnakeRadius,
		FoodRadius:      w.FoodRadius,
		FastRejectDist:  game.DefaultParams().FastRejectDist,
		SampleStep:      game.DefaultParams().SampleStep,
		RespawnDelay:    time.Duration(w.RespawnDelayS) * time.Second,
		GracePeriod:     time.Duration(w.GracePeriodS) * time.Second,
		KillBonus:       w.KillBonus,
		SpawnAttempts:   w.SpawnAttempts,
		SpawnSeparation: w.SpawnSeparation,
	}
}
