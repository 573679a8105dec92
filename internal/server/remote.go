package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/protocol"
)

// ErrBotLeft is returned when a seated bot disconnects before answering.
var ErrBotLeft = errors.New("bot disconnected")

// remotePolicy proxies decisions to a connected bot. The driver enforces the
// decision timeout and folds the seat when it expires.
type remotePolicy struct {
	bot     *Bot
	gameID  string
	timeout time.Duration
}

func (r *remotePolicy) Decide(ctx context.Context, view game.View) (game.Action, error) {
	pending := r.bot.expect(r.gameID, view.Turn)
	defer r.bot.forget(pending)

	req := protocol.ActionRequest{
		GameID:    r.gameID,
		View:      protocol.FromView(view),
		TimeoutMs: r.timeout.Milliseconds(),
	}
	if err := r.bot.Send(protocol.TypeActionRequest, req); err != nil {
		return game.NoAction, fmt.Errorf("requesting action from %s: %w", r.bot.ID, err)
	}

	select {
	case a := <-pending.reply:
		return a, nil
	case <-r.bot.Done():
		return game.NoAction, fmt.Errorf("%w: %s", ErrBotLeft, r.bot.ID)
	case <-ctx.Done():
		return game.NoAction, ctx.Err()
	}
}
