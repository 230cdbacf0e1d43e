package config

// Default returns the compiled-in configuration: the standard arena
// rules on port 5000, TLS off, identity registry memory-only.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:     ":5000",
			MaxPlayers: 20,
		},
		World: WorldConfig{
			Size:            3000,
			FoodCount:       850,
			TickMS:          15,
			BroadcastEvery:  3,
			SnakeSpeed:      4,
			BaseLength:      5,
			MaxLength:       100,
			SegmentSpacing:  3,
			SnakeRadius:     10,
			FoodRadius:      15,
			RespawnDelayS:   5,
			GracePeriodS:    5,
			KillBonus:       10,
			SpawnAttempts:   20,
			SpawnSeparation: 50,
		},
	}
}
