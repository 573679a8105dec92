package main

import (
	"os"
	"time"

	"github.com/lox/revolver/cmd/revolver/shared"
	"github.com/lox/revolver/internal/simulator"
)

// SimulateCmd runs many independent games and prints aggregate statistics.
type SimulateCmd struct {
	Games     int           `short:"n" default:"10000" help:"Number of games to play"`
	Players   int           `short:"p" default:"2" help:"Players per game"`
	Chambers  int           `default:"6" help:"Chambers in the revolver"`
	Bullets   int           `default:"1" help:"Loaded chambers"`
	Policy    []string      `default:"trigger" help:"Policies by acting position; the last one fills remaining seats"`
	Threshold float64       `default:"0.5" help:"Loaded odds at which coward seats fold"`
	Seed      int64         `help:"Base seed; game i uses seed+i (0 picks one)"`
	Workers   int           `short:"w" help:"Parallel workers (defaults to GOMAXPROCS)"`
	Timeout   time.Duration `default:"30s" help:"Limit for a single game"`
	Save      string        `type:"existingdir" help:"Directory to save every game history to"`
	Debug     bool          `help:"Enable debug logging"`
	JSON      bool          `name:"json" help:"Log as JSON"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSON)
	ctx := shared.SetupSignalHandler(logger)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := simulator.New(simulator.Config{
		Games:      c.Games,
		Players:    c.Players,
		Chambers:   c.Chambers,
		Bullets:    c.Bullets,
		Policies:   c.Policy,
		Threshold:  c.Threshold,
		Seed:       seed,
		Workers:    c.Workers,
		Timeout:    c.Timeout,
		HistoryDir: c.Save,
		Logger:     logger,
	})

	logger.Info("Simulating", "games", c.Games, "players", c.Players, "policies", c.Policy, "seed", seed)
	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))

	stats.Print(os.Stdout)
	return nil
}
