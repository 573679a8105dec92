// Package history records finished games and replays them against the rules.
//
// Games are stored as TOML documents, one file per game, named after the game
// ID.
package history

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/revolver/internal/game"
)

// ErrMismatch is returned by Replay when the recorded game disagrees with the
// rules.
var ErrMismatch = errors.New("history does not match replay")

// Game is the transcript of a single game.
type Game struct {
	ID       string         `toml:"id"`
	Seed     int64          `toml:"seed"`
	Started  time.Time      `toml:"started"`
	Chambers []game.Chamber `toml:"chambers"`
	// Order is the opening turn order; its last entry acted first.
	Order   []game.PlayerID `toml:"order"`
	Players []Player        `toml:"players"`
	Steps   []Step          `toml:"steps"`
	Result  Result          `toml:"result"`
}

// Player describes who sat in a seat.
type Player struct {
	ID     game.PlayerID `toml:"id"`
	Name   string        `toml:"name"`
	Policy string        `toml:"policy,omitempty"`
}

// Step is one resolved turn.
type Step struct {
	Turn   int           `toml:"turn"`
	Player game.PlayerID `toml:"player"`
	Action game.Action   `toml:"action"`
	// Fallback explains why Action differs from what the policy asked for
	// (timeout, error, invalid action). Empty for normal turns.
	Fallback string      `toml:"fallback,omitempty"`
	Status   game.Status `toml:"status"`
	Chambers int         `toml:"chambers"`
	Players  int         `toml:"players"`
}

// Result is how the game ended.
type Result struct {
	Status game.Status   `toml:"status"`
	Player game.PlayerID `toml:"player"`
	Turns  int           `toml:"turns"`
}

// Name returns the display name for id, falling back to the ID itself.
func (g *Game) Name(id game.PlayerID) string {
	for _, p := range g.Players {
		if p.ID == id && p.Name != "" {
			return p.Name
		}
	}
	return id.String()
}

// Table rebuilds the opening table.
func (g *Game) Table() game.Table {
	return game.NewTable(g.Chambers, g.Order...)
}

// Summary is a one-line description of the result.
func (g *Game) Summary() string {
	switch g.Result.Status {
	case game.PlayerEliminated:
		return fmt.Sprintf("%s was eliminated after %d turns", g.Name(g.Result.Player), g.Result.Turns)
	case game.PlayerWon:
		return fmt.Sprintf("%s won after %d turns", g.Name(g.Result.Player), g.Result.Turns)
	case game.AllPlayersFolded:
		return fmt.Sprintf("everybody folded after %d turns", g.Result.Turns)
	default:
		return fmt.Sprintf("unfinished after %d turns", g.Result.Turns)
	}
}

// Encode writes g as TOML.
func Encode(w io.Writer, g *Game) error {
	if g == nil {
		return fmt.Errorf("history: game is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(g)
}

// Decode reads a game written by Encode.
func Decode(r io.Reader) (*Game, error) {
	var g Game
	if _, err := toml.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("history: decoding game: %w", err)
	}
	return &g, nil
}

// Replay resolves every recorded action from the opening table and checks
// that each step, and the final result, come out as recorded.
func Replay(g *Game) error {
	table := g.Table()
	out := game.Outcome{Status: game.Playing, Table: table}

	for _, step := range g.Steps {
		if out.Terminal() {
			return fmt.Errorf("%w: step %d recorded after the game ended", ErrMismatch, step.Turn)
		}
		if len(table.Hands) == 0 {
			return fmt.Errorf("%w: step %d has no player to act", ErrMismatch, step.Turn)
		}
		if current := table.Hands.Current().ID; current != step.Player {
			return fmt.Errorf("%w: step %d recorded %s acting, but it was %s's turn", ErrMismatch, step.Turn, step.Player, current)
		}
		if step.Action == game.NoAction {
			return fmt.Errorf("%w: step %d has no action", ErrMismatch, step.Turn)
		}

		out = game.Resolve(table, step.Action)
		if out.Status != step.Status {
			return fmt.Errorf("%w: step %d resolved to %s, recorded %s", ErrMismatch, step.Turn, out.Status, step.Status)
		}
		if !out.Terminal() {
			table = out.Table
		}
	}

	if out.Status != g.Result.Status {
		return fmt.Errorf("%w: game ended %s, recorded %s", ErrMismatch, out.Status, g.Result.Status)
	}
	if (out.Status == game.PlayerEliminated || out.Status == game.PlayerWon) && out.Player != g.Result.Player {
		return fmt.Errorf("%w: result names %s, replay gives %s", ErrMismatch, g.Result.Player, out.Player)
	}
	return nil
}
