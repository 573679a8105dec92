package main

import (
	"time"

	"github.com/lox/revolver/cmd/revolver/shared"
	"github.com/lox/revolver/internal/server"
)

// ServerCmd runs the websocket bot server.
type ServerCmd struct {
	Addr     string        `default:":8080" help:"Server address"`
	Seats    int           `default:"2" help:"Bots per game"`
	Chambers int           `default:"6" help:"Chambers in the revolver"`
	Bullets  int           `default:"1" help:"Loaded chambers"`
	Timeout  time.Duration `default:"1s" help:"Decision timeout before a bot is folded"`
	Games    int           `help:"Exit after this many games (0 runs forever)"`
	Seed     int64         `help:"Deterministic base seed (0 picks one)"`
	Save     string        `type:"existingdir" help:"Directory to save game histories to"`
	Debug    bool          `help:"Enable debug logging"`
	JSON     bool          `name:"json" help:"Log as JSON"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSON)
	ctx := shared.SetupSignalHandler(logger)

	s, err := server.New(server.Config{
		Addr:            c.Addr,
		Seats:           c.Seats,
		Chambers:        c.Chambers,
		Bullets:         c.Bullets,
		DecisionTimeout: c.Timeout,
		MaxGames:        c.Games,
		Seed:            c.Seed,
		HistoryDir:      c.Save,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting revolver server",
		"address", c.Addr,
		"seats", c.Seats,
		"chambers", c.Chambers,
		"bullets", c.Bullets,
		"decision_timeout", c.Timeout)
	return s.ListenAndServe(ctx)
}
