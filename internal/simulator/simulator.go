// Package simulator plays many independent games in parallel and aggregates
// how they end.
package simulator

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/revolver/internal/driver"
	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/gameid"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/policy"
	"github.com/lox/revolver/internal/setup"
)

// Config holds configuration for running simulations.
//
// Policies are assigned to seats by acting position, repeating the last entry
// for any remaining seats. Threshold configures coward seats; zero uses the
// policy default. Timeout bounds a single game and a game that runs longer
// fails the run. HistoryDir, when set, receives a transcript of every game.
type Config struct {
	Games      int
	Players    int
	Chambers   int
	Bullets    int
	Policies   []string
	Threshold  float64
	Seed       int64
	Workers    int
	Timeout    time.Duration
	HistoryDir string
	Logger     *log.Logger
}

// Simulator runs game simulations
type Simulator struct {
	config Config
	engine *driver.Engine
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if len(config.Policies) == 0 {
		config.Policies = []string{"trigger"}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{
		config: config,
		engine: driver.NewEngine(config.Logger),
	}
}

// Validate checks the configuration before any game is played.
func (c Config) Validate() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Players < 1 {
		return fmt.Errorf("players must be positive, got %d", c.Players)
	}
	if c.Chambers < 1 {
		return fmt.Errorf("chambers must be positive, got %d", c.Chambers)
	}
	if c.Bullets < 0 || c.Bullets > c.Chambers {
		return fmt.Errorf("bullets must be between 0 and %d, got %d", c.Chambers, c.Bullets)
	}
	for _, name := range c.Policies {
		if !policy.Known(name) {
			return fmt.Errorf("unknown policy %q (known: %s)", name, strings.Join(policy.Names(), ", "))
		}
		// Seats carry a threshold but never a script.
		if name == "script" {
			return fmt.Errorf("policy %q cannot be simulated: seats have no script", name)
		}
		opts := policy.Options{Threshold: c.Threshold, Rand: setup.NewRand(c.Seed)}
		if _, err := policy.New(name, opts); err != nil {
			return fmt.Errorf("policy %s: %w", name, err)
		}
	}
	return nil
}

// Run plays every game and returns the aggregated statistics. Games are
// independent: game i is fully determined by Seed+i.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	stats := NewStats(s.config.Players)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Games; i++ {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			result, err := s.playGame(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			mu.Lock()
			stats.Add(result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

func (s *Simulator) playGame(ctx context.Context, seed int64) (GameResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	rng := setup.NewRand(seed)
	table, roster := setup.Random(rng, s.config.Chambers, s.config.Bullets, s.config.Players, s.config.Policies[0])
	for i := range roster {
		roster[i].Config.Policy = s.config.Policies[min(i, len(s.config.Policies)-1)]
		roster[i].Config.Threshold = s.config.Threshold
	}

	policies, err := roster.Policies(rng)
	if err != nil {
		return GameResult{}, err
	}

	started := time.Now()
	res, err := s.engine.Play(ctx, table, policies)
	if err != nil {
		return GameResult{}, err
	}

	if s.config.HistoryDir != "" {
		id := gameid.NewGenerator(rng).Generate()
		if _, err := history.SaveFile(s.config.HistoryDir, res.Record(id, seed, started, roster.Players())); err != nil {
			return GameResult{}, fmt.Errorf("saving history: %w", err)
		}
	}

	result := GameResult{
		Seed:      seed,
		Status:    res.Outcome.Status,
		Position:  -1,
		Turns:     res.Turns(),
		Fallbacks: res.Fallbacks,
	}
	if res.Outcome.Status == game.PlayerEliminated || res.Outcome.Status == game.PlayerWon {
		for pos, seat := range roster {
			if seat.ID == res.Outcome.Player {
				result.Position = pos
			}
		}
	}
	return result, nil
}
