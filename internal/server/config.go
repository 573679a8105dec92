package server

import (
	"fmt"
	"time"
)

// Config controls how the server seats bots and runs games.
type Config struct {
	Addr string
	// Seats is how many waiting bots are needed to start a game.
	Seats    int
	Chambers int
	Bullets  int
	// DecisionTimeout is how long a bot may take to answer an action
	// request before it is folded.
	DecisionTimeout time.Duration
	// MaxGames stops matchmaking after this many games; 0 is unlimited.
	MaxGames int
	// Seed makes game n use Seed+n. Zero picks a time-based seed.
	Seed int64
	// HistoryDir, when set, receives a transcript of every finished game.
	HistoryDir string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Seats:           2,
		Chambers:        6,
		Bullets:         1,
		DecisionTimeout: time.Second,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.Seats < 1 {
		return fmt.Errorf("seats must be positive, got %d", c.Seats)
	}
	if c.Chambers < 1 {
		return fmt.Errorf("chambers must be positive, got %d", c.Chambers)
	}
	if c.Bullets < 0 || c.Bullets > c.Chambers {
		return fmt.Errorf("bullets must be between 0 and %d, got %d", c.Chambers, c.Bullets)
	}
	if c.DecisionTimeout < 0 {
		return fmt.Errorf("decision timeout cannot be negative")
	}
	if c.MaxGames < 0 {
		return fmt.Errorf("max games cannot be negative")
	}
	return nil
}
