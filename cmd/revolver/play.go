package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/revolver/cmd/revolver/shared"
	"github.com/lox/revolver/internal/driver"
	"github.com/lox/revolver/internal/gameid"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/setup"
)

// PlayCmd plays a single game between the policies named in a setup file.
type PlayCmd struct {
	Config  string        `short:"c" type:"existingfile" help:"HCL table setup file (defaults to two players, one bullet in six)"`
	Seed    int64         `help:"Seed for shuffled revolvers and random policies (0 picks one)"`
	Timeout time.Duration `default:"0s" help:"Per-decision timeout; 0 disables it"`
	Save    string        `type:"existingdir" help:"Directory to save the game history to"`
	Debug   bool          `help:"Enable debug logging"`
	JSON    bool          `name:"json" help:"Log as JSON"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSON)
	ctx := shared.SetupSignalHandler(logger)

	cfg := setup.Default()
	if c.Config != "" {
		var err error
		if cfg, err = setup.Load(c.Config); err != nil {
			return err
		}
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := setup.NewRand(seed)

	table, roster, err := cfg.Build(rng)
	if err != nil {
		return err
	}
	policies, err := roster.Policies(rng)
	if err != nil {
		return err
	}
	names := roster.Names()

	logger.Info("Starting game", "seed", seed, "players", len(roster), "table", table)
	engine := driver.NewEngine(logger,
		driver.WithDecisionTimeout(c.Timeout),
		driver.WithHooks(driver.Hooks{
			OnTurn: func(_ context.Context, e driver.TurnEvent) {
				logger.Info("Turn",
					"turn", e.Step.Turn,
					"player", names[e.Step.Player],
					"action", e.Step.Action,
					"outcome", e.Outcome)
			},
		}),
	)

	started := time.Now()
	res, err := engine.Play(ctx, table, policies)
	if err != nil {
		return err
	}

	g := res.Record(gameid.NewGenerator(rng).Generate(), seed, started, roster.Players())
	fmt.Println(g.Summary())

	if c.Save != "" {
		path, err := history.SaveFile(c.Save, g)
		if err != nil {
			return err
		}
		logger.Info("Saved game", "path", path)
	}
	return nil
}
