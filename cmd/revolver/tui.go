package main

import (
	"fmt"
	"io"
	"os"
	"time"


	"github.com/lox/revolver/cmd/revolver/shared"
	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/gameid"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/setup"
	"github.com/lox/revolver/internal/tui"
)

// TUICmd lets a human play against built-in policies.
type TUICmd struct {
	Players   int           `short:"p" default:"3" help:"Players including you"`
	Chambers  int           `default:"6" help:"Chambers in the revolver"`
	Bullets   int           `default:"1" help:"Loaded chambers"`
	Bots      string        `default:"cautious" help:"Policy for the other seats (${policies})"`
	Threshold float64       `default:"0.5" help:"Loaded odds at which coward bots fold"`
	Seed      int64         `help:"Seed for the revolver and seating (0 picks one)"`
	Delay     time.Duration `default:"600ms" help:"Pause before each bot acts"`
	NoColor   bool          `help:"Disable colours"`
	Save      string        `type:"existingdir" help:"Directory to save the game history to"`
	LogFile   string        `type:"path" help:"Write debug logs to this file"`
}

func (c *TUICmd) Run() error {
	if c.Players < 2 {
		return fmt.Errorf("need at least 2 players, got %d", c.Players)
	}
	if c.Bots == "script" {
		return fmt.Errorf("the script policy needs a setup file; use play instead")
	}
	if c.NoColor {
		tui.DisableColor()
	}

	// The screen belongs to the TUI, so logs only go to a file if asked.
	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := shared.NewLogger(logOut, true, false)
	ctx := shared.SetupSignalHandler(logger)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := setup.NewRand(seed)

	table, roster := setup.Random(rng, c.Chambers, c.Bullets, c.Players, c.Bots)
	human := roster[rng.IntN(len(roster))].ID

	names := make(map[game.PlayerID]string, len(roster))
	var botSeats setup.Roster
	for i := range roster {
		if roster[i].ID == human {
			roster[i].Name = "you"
			roster[i].Config.Policy = "human"
		} else {
			roster[i].Config.Threshold = c.Threshold
			botSeats = append(botSeats, roster[i])
		}
		names[roster[i].ID] = roster[i].Name
	}
	bots, err := botSeats.Policies(rng)
	if err != nil {
		return err
	}

	logger.Debug("Starting game", "seed", seed, "human", human, "table", table)
	m := tui.New(table, names, human, bots, logger, tui.WithBotDelay(c.Delay))
	started := time.Now()
	if err := tui.Run(ctx, m); err != nil {
		return err
	}

	out, done := m.Outcome()
	if !done {
		fmt.Println("Game abandoned.")
		return nil
	}

	g := &history.Game{
		ID:       gameid.NewGenerator(rng).Generate(),
		Seed:     seed,
		Started:  started,
		Chambers: table.Revolver.Chambers,
		Order:    table.Hands.IDs(),
		Players:  roster.Players(),
		Steps:    m.Steps(),
		Result: history.Result{
			Status: out.Status,
			Player: out.Player,
			Turns:  len(m.Steps()),
		},
	}
	fmt.Println(g.Summary())

	if c.Save != "" {
		path, err := history.SaveFile(c.Save, g)
		if err != nil {
			return err
		}
		fmt.Println("Saved", path)
	}
	return nil
}
