package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/revolver/internal/driver"
	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/gameid"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/policy"
	"github.com/lox/revolver/internal/protocol"
	"github.com/lox/revolver/internal/setup"
)

// startGame is called by the pool with a full table of bots.
func (s *Server) startGame(bots []*Bot) {
	n := s.started.Add(1)
	if s.config.MaxGames > 0 {
		if n > int64(s.config.MaxGames) {
			return
		}
		if n == int64(s.config.MaxGames) {
			s.pool.close()
		}
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.games.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.games.Done()
		s.runGame(s.ctx, bots, s.seedBase+n-1)
		s.finishGame(bots)
	}()
}

// seat is one bot's place at a running game.
type seat struct {
	id  game.PlayerID
	bot *Bot
}

func (s *Server) runGame(ctx context.Context, bots []*Bot, seed int64) {
	rng := setup.NewRand(seed)
	id := gameid.NewGenerator(rng).Generate()
	logger := s.logger.With("game", id)

	table, roster := setup.Random(rng, s.config.Chambers, s.config.Bullets, len(bots), "remote")
	seats := make([]seat, len(roster))
	players := make([]protocol.Player, len(roster))
	policies := make(map[game.PlayerID]policy.Policy, len(roster))
	for i := range roster {
		b := bots[int(roster[i].ID)]
		roster[i].Name = b.ID
		seats[i] = seat{id: roster[i].ID, bot: b}
		players[i] = protocol.Player{ID: roster[i].ID, Name: b.ID}
		policies[roster[i].ID] = &remotePolicy{bot: b, gameID: id, timeout: s.config.DecisionTimeout}
	}

	logger.Info("Game starting", "seed", seed, "players", len(seats))
	for _, st := range seats {
		start := protocol.GameStart{
			GameID:   id,
			Seat:     st.id,
			Players:  players,
			Chambers: table.Revolver.Remaining(),
			Bullets:  table.Revolver.LoadedCount(),
		}
		if err := st.bot.Send(protocol.TypeGameStart, start); err != nil {
			logger.Warn("Failed to send game start", "bot", st.bot.ID, "error", err)
		}
	}

	engine := driver.NewEngine(logger,
		driver.WithClock(s.clock),
		driver.WithDecisionTimeout(s.config.DecisionTimeout),
		driver.WithHooks(driver.Chain(s.metrics.Hooks(), broadcastHooks(logger, id, seats))),
	)

	started := time.Now()
	res, err := engine.Play(ctx, table, policies)
	if err != nil {
		logger.Error("Game aborted", "error", err)
		return
	}

	if s.config.HistoryDir != "" {
		path, err := history.SaveFile(s.config.HistoryDir, res.Record(id, seed, started, roster.Players()))
		if err != nil {
			logger.Error("Failed to save history", "error", err)
		} else {
			logger.Debug("Saved history", "path", path)
		}
	}
}

// broadcastHooks keeps every seated bot informed, including those that have
// already folded.
func broadcastHooks(logger *log.Logger, gameID string, seats []seat) driver.Hooks {
	broadcast := func(t protocol.Type, payload any) {
		for _, st := range seats {
			if err := st.bot.Send(t, payload); err != nil {
				logger.Debug("Failed to send", "type", t, "bot", st.bot.ID, "error", err)
			}
		}
	}

	return driver.Hooks{
		OnTurn: func(_ context.Context, e driver.TurnEvent) {
			broadcast(protocol.TypeTurn, protocol.Turn{
				GameID:   gameID,
				Turn:     e.Step.Turn,
				Player:   e.Step.Player,
				Action:   e.Step.Action,
				Fallback: e.Step.Fallback,
				Status:   e.Step.Status,
				Chambers: e.Step.Chambers,
				Players:  e.Step.Players,
			})
		},
		OnOutcome: func(_ context.Context, e driver.OutcomeEvent) {
			logger.Info("Game finished", "outcome", e.Outcome, "turns", e.Turns, "fallbacks", e.Fallbacks)
			broadcast(protocol.TypeGameEnd, protocol.GameEnd{
				GameID: gameID,
				Status: e.Outcome.Status,
				Player: e.Outcome.Player,
				Turns:  e.Turns,
			})
		},
	}
}

// finishGame returns the bots to the waiting room, or signals Done once the
// game limit is reached.
func (s *Server) finishGame(bots []*Bot) {
	n := s.finished.Add(1)
	if s.config.MaxGames > 0 && n >= int64(s.config.MaxGames) {
		s.closeDone.Do(func() { close(s.done) })
		return
	}
	for _, b := range bots {
		s.pool.add(b)
	}
}
