package driver

import (
	"context"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/history"
)

// TurnEvent describes one resolved action.
type TurnEvent struct {
	Step    history.Step
	Outcome game.Outcome
}

// OutcomeEvent describes a finished game.
type OutcomeEvent struct {
	Outcome   game.Outcome
	Turns     int
	Fallbacks int
}

// Hooks are optional callbacks invoked synchronously from Play.
type Hooks struct {
	OnTurn    func(ctx context.Context, e TurnEvent)
	OnOutcome func(ctx context.Context, e OutcomeEvent)
}

// Chain combines hooks so that each callback runs in order.
func Chain(hooks ...Hooks) Hooks {
	return Hooks{
		OnTurn: func(ctx context.Context, e TurnEvent) {
			for _, h := range hooks {
				if h.OnTurn != nil {
					h.OnTurn(ctx, e)
				}
			}
		},
		OnOutcome: func(ctx context.Context, e OutcomeEvent) {
			for _, h := range hooks {
				if h.OnOutcome != nil {
					h.OnOutcome(ctx, e)
				}
			}
		},
	}
}
