package main

import (
	"time"

	"github.com/lox/revolver/cmd/revolver/shared"
	"github.com/lox/revolver/internal/client"
	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/policy"
	"github.com/lox/revolver/internal/setup"
)

// BotCmd connects one built-in policy to a server.
type BotCmd struct {
	Policy    string        `arg:"" optional:"" default:"cautious" help:"Policy to play (${policies})"`
	Server    string        `default:"ws://localhost:8080/ws" env:"REVOLVER_SERVER" help:"Server URL"`
	Name      string        `env:"REVOLVER_BOT_ID" help:"Bot name (defaults to the policy name)"`
	Seed      int64         `env:"REVOLVER_SEED" help:"Seed for random policies (0 picks one)"`
	Script    []string      `help:"Actions for the script policy"`
	Threshold float64       `default:"0.5" help:"Loaded odds at which the coward policy folds"`
	Games     int           `help:"Disconnect after this many games (0 plays forever)"`
	Retry     time.Duration `default:"2s" help:"Delay between reconnection attempts (0 disables)"`
	Debug     bool          `help:"Enable debug logging"`
	JSON      bool          `name:"json" help:"Log as JSON"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSON)
	ctx := shared.SetupSignalHandler(logger)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := policy.Options{Threshold: c.Threshold, Rand: setup.NewRand(seed)}
	for _, s := range c.Script {
		a, err := game.ParseAction(s)
		if err != nil {
			return err
		}
		opts.Script = append(opts.Script, a)
	}

	p, err := policy.New(c.Policy, opts)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = c.Policy
	}

	bot := client.New(client.Config{
		URL:        c.Server,
		Name:       name,
		Games:      c.Games,
		RetryDelay: c.Retry,
	}, p, logger)
	if err := bot.Run(ctx); err != nil {
		return err
	}

	st := bot.Stats()
	logger.Info("Bot finished",
		"games", st.Games,
		"eliminated", st.Eliminated,
		"won", st.Won,
		"survived", st.Survived,
		"fallbacks", st.Fallbacks)
	return nil
}
