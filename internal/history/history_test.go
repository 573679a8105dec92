package history

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/revolver/internal/game"
)

// record plays the given actions in order and returns the transcript.
func record(t *testing.T, chambers []game.Chamber, order []game.PlayerID, actions ...game.Action) *Game {
	t.Helper()

	g := &Game{
		ID:       "01h5n0et5q6mt3v7ms1234abcd",
		Seed:     42,
		Started:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Chambers: chambers,
		Order:    order,
	}
	for _, id := range order {
		g.Players = append(g.Players, Player{ID: id, Name: "bot-" + id.String(), Policy: "script"})
	}

	table := g.Table()
	for i, a := range actions {
		player := table.Hands.Current().ID
		out := game.Resolve(table, a)
		step := Step{Turn: i + 1, Player: player, Action: a, Status: out.Status}
		if !out.Terminal() {
			step.Chambers = out.Table.Revolver.Remaining()
			step.Players = len(out.Table.Hands)
		}
		g.Steps = append(g.Steps, step)
		g.Result = Result{Status: out.Status, Player: out.Player, Turns: i + 1}
		if out.Terminal() {
			require.Equal(t, len(actions)-1, i, "game ended before all actions were played")
			break
		}
		table = out.Table
	}
	return g
}

func classic() []game.Chamber {
	return []game.Chamber{game.Empty, game.Loaded, game.Empty, game.Empty, game.Empty, game.Empty}
}

func TestEncodeDecode(t *testing.T) {
	g := record(t, classic(), []game.PlayerID{0, 1},
		game.Trigger, game.Slide, game.Trigger, game.Trigger, game.Trigger, game.Trigger)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))

	text := buf.String()
	assert.Contains(t, text, `chambers = ["empty", "loaded", "empty", "empty", "empty", "empty"]`)
	assert.Contains(t, text, `action = "slide"`)
	assert.Contains(t, text, `status = "player_eliminated"`)

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

func TestEncodeNil(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, nil))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`[[steps]]
action = "raise"`))
	assert.ErrorContains(t, err, "unknown action")
}

func TestReplay(t *testing.T) {
	t.Run("trigger game", func(t *testing.T) {
		g := record(t, classic(), []game.PlayerID{0, 1},
			game.Trigger, game.Trigger, game.Trigger, game.Trigger, game.Trigger)
		require.NoError(t, Replay(g))
		assert.Equal(t, "bot-p1 was eliminated after 5 turns", g.Summary())
	})

	t.Run("fold game", func(t *testing.T) {
		g := record(t, classic(), []game.PlayerID{0, 1}, game.Slide, game.Slide, game.Slide, game.Fold)
		require.NoError(t, Replay(g))
		assert.Equal(t, game.AllPlayersFolded, g.Result.Status)
		assert.Equal(t, "everybody folded after 4 turns", g.Summary())
	})

	t.Run("win on empty revolver", func(t *testing.T) {
		g := record(t, []game.Chamber{game.Empty}, []game.PlayerID{3}, game.Trigger)
		require.NoError(t, Replay(g))
		assert.Equal(t, "bot-p3 won after 1 turns", g.Summary())
	})

	t.Run("tampered action", func(t *testing.T) {
		g := record(t, classic(), []game.PlayerID{0, 1},
			game.Trigger, game.Trigger, game.Trigger, game.Trigger, game.Trigger)
		g.Steps[4].Action = game.Slide
		assert.ErrorIs(t, Replay(g), ErrMismatch)
	})

	t.Run("wrong player", func(t *testing.T) {
		g := record(t, classic(), []game.PlayerID{0, 1}, game.Trigger)
		g.Steps[0].Player = 0
		assert.ErrorContains(t, Replay(g), "it was p1's turn")
	})

	t.Run("wrong result", func(t *testing.T) {
		g := record(t, classic(), []game.PlayerID{0, 1},
			game.Trigger, game.Trigger, game.Trigger, game.Trigger, game.Trigger)
		g.Result.Player = 0
		assert.ErrorIs(t, Replay(g), ErrMismatch)
	})

	t.Run("steps after the end", func(t *testing.T) {
		g := record(t, []game.Chamber{game.Loaded}, []game.PlayerID{0, 1}, game.Trigger)
		g.Steps = append(g.Steps, Step{Turn: 2, Player: 0, Action: game.Trigger})
		assert.ErrorContains(t, Replay(g), "after the game ended")
	})
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	g := record(t, classic(), []game.PlayerID{0, 1}, game.Fold, game.Fold)

	path, err := SaveFile(dir, g)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, g.ID+".toml"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g, loaded)

	g.ID = ""
	_, err = SaveFile(dir, g)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestSaveFileCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "games", "today")
	g := record(t, classic(), []game.PlayerID{0, 1}, game.Trigger)

	path, err := SaveFile(dir, g)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
