// Package driver runs games: it asks each seat's policy for an action,
// resolves it with the game rules and stops at the first terminal outcome.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/policy"
)

// DefaultMaxTurns bounds a game when no limit is configured. The rules
// guarantee termination well before this for any sane table.
const DefaultMaxTurns = 10_000

// ErrStalled is returned when a game exceeds the engine's turn limit.
var ErrStalled = errors.New("game exceeded the turn limit")

// Fallback reasons recorded when a policy's answer is replaced by a fold.
const (
	FallbackTimeout = "timeout"
	FallbackError   = "error"
	FallbackInvalid = "invalid_action"
)

// Engine drives games to completion. An Engine holds no per-game state and
// may run several games concurrently.
type Engine struct {
	logger   *log.Logger
	clock    quartz.Clock
	timeout  time.Duration
	maxTurns int
	hooks    Hooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for decision timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithDecisionTimeout limits how long a policy may take to decide. A policy
// that misses the deadline folds. Zero disables the limit.
func WithDecisionTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithMaxTurns overrides DefaultMaxTurns.
func WithMaxTurns(n int) Option {
	return func(e *Engine) { e.maxTurns = n }
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// NewEngine creates an engine.
func NewEngine(logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:   logger.WithPrefix("driver"),
		clock:    quartz.NewReal(),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is everything the engine observed while playing one game.
type Result struct {
	Initial   game.Table
	Outcome   game.Outcome
	Steps     []history.Step
	Fallbacks int
}

// Turns returns the number of resolved actions.
func (r *Result) Turns() int {
	return len(r.Steps)
}

// Record converts the result into a history transcript.
func (r *Result) Record(id string, seed int64, started time.Time, players []history.Player) *history.Game {
	g := &history.Game{
		ID:       id,
		Seed:     seed,
		Started:  started,
		Chambers: append([]game.Chamber(nil), r.Initial.Revolver.Chambers...),
		Order:    r.Initial.Hands.IDs(),
		Players:  players,
		Steps:    r.Steps,
		Result: history.Result{
			Status: r.Outcome.Status,
			Player: r.Outcome.Player,
			Turns:  r.Turns(),
		},
	}
	return g
}

// Play runs a game from table until it reaches a terminal outcome. Every
// seated player must have a policy.
//
// If ctx is cancelled the partial result is returned along with ctx.Err().
func (e *Engine) Play(ctx context.Context, table game.Table, policies map[game.PlayerID]policy.Policy) (*Result, error) {
	for _, h := range table.Hands {
		if policies[h.ID] == nil {
			return nil, fmt.Errorf("no policy for player %s", h.ID)
		}
	}
	if len(table.Hands) == 0 {
		return nil, fmt.Errorf("table has no players")
	}

	res := &Result{Initial: table.Clone()}
	e.logger.Debug("Starting game", "players", len(table.Hands), "chambers", table.Revolver.Remaining())

	for turn := 1; ; turn++ {
		if e.maxTurns > 0 && turn > e.maxTurns {
			return res, fmt.Errorf("%w (%d turns)", ErrStalled, e.maxTurns)
		}

		view := table.ViewFor(turn)
		action, fallback, err := e.decide(ctx, policies[view.Player], view)
		if err != nil {
			return res, err
		}
		if fallback != "" {
			res.Fallbacks++
		}

		out := game.Resolve(table, action)
		step := history.Step{
			Turn:     turn,
			Player:   view.Player,
			Action:   action,
			Fallback: fallback,
			Status:   out.Status,
		}
		if !out.Terminal() {
			step.Chambers = out.Table.Revolver.Remaining()
			step.Players = len(out.Table.Hands)
		}
		res.Steps = append(res.Steps, step)

		e.logger.Debug("Turn resolved",
			"turn", turn,
			"player", view.Player,
			"action", action,
			"status", out.Status,
			"table", out.Table)

		if e.hooks.OnTurn != nil {
			e.hooks.OnTurn(ctx, TurnEvent{Step: step, Outcome: out})
		}

		if out.Terminal() {
			res.Outcome = out
			e.logger.Debug("Game over", "outcome", out, "turns", turn)
			if e.hooks.OnOutcome != nil {
				e.hooks.OnOutcome(ctx, OutcomeEvent{Outcome: out, Turns: turn, Fallbacks: res.Fallbacks})
			}
			return res, nil
		}
		table = out.Table
	}
}

type decision struct {
	action game.Action
	err    error
}

// decide asks p for an action. Policy errors, invalid actions and timeouts
// turn into a fold and a non-empty fallback reason. Only context
// cancellation is returned as an error.
func (e *Engine) decide(ctx context.Context, p policy.Policy, view game.View) (game.Action, string, error) {
	if err := ctx.Err(); err != nil {
		return game.NoAction, "", err
	}

	var d decision
	if e.timeout <= 0 {
		d.action, d.err = p.Decide(ctx, view)
	} else {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		expired := make(chan struct{})
		timer := e.clock.AfterFunc(e.timeout, func() { close(expired) }, "driver", "decide")
		defer timer.Stop()

		decided := make(chan decision, 1)
		go func() {
			a, err := p.Decide(ctx, view)
			decided <- decision{action: a, err: err}
		}()

		select {
		case d = <-decided:
		case <-expired:
			e.logger.Warn("Decision timed out, folding", "player", view.Player, "timeout", e.timeout)
			return game.Fold, FallbackTimeout, nil
		case <-ctx.Done():
			return game.NoAction, "", ctx.Err()
		}
	}

	if d.err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return game.NoAction, "", ctxErr
		}
		e.logger.Warn("Policy failed, folding", "player", view.Player, "error", d.err)
		return game.Fold, FallbackError, nil
	}
	switch d.action {
	case game.Fold, game.Slide, game.Trigger:
		return d.action, "", nil
	default:
		e.logger.Warn("Policy chose an invalid action, folding", "player", view.Player, "action", d.action)
		return game.Fold, FallbackInvalid, nil
	}
}
