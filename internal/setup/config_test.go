package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/policy"
)

func TestParse(t *testing.T) {
	src := `
revolver {
  chambers = 4
  loaded   = [0, 2]
}

player "alice" {
  policy = "script"
  script = ["slide", "trigger"]
}

player "bob" {
  policy    = "coward"
  threshold = 0.5
}

player "carol" {}
`
	cfg, err := Parse([]byte(src), "table.hcl")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Revolver.Chambers)
	assert.Equal(t, []int{0, 2}, cfg.Revolver.Loaded)
	require.Len(t, cfg.Players, 3)
	assert.Equal(t, "alice", cfg.Players[0].Name)
	assert.Equal(t, []string{"slide", "trigger"}, cfg.Players[0].Script)
	assert.Equal(t, 0.5, cfg.Players[1].Threshold)
	assert.Equal(t, "trigger", cfg.Players[2].Policy, "policy defaults to trigger")
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""), "empty.hcl")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", `revolver {`, "failed to parse"},
		{"unknown attribute", `revolver { barrels = 2 }`, "failed to decode"},
		{"loaded out of range", `revolver {
  chambers = 3
  loaded = [3]
}`, "out of range"},
		{"loaded twice", `revolver {
  loaded = [1, 1]
}`, "loaded twice"},
		{"bullets without shuffle", `revolver {
  bullets = 2
}`, "only used with shuffle"},
		{"too many bullets", `revolver {
  chambers = 2
  shuffle = true
  bullets = 3
}`, "bullets must be between"},
		{"bad policy", `player "x" {
  policy = "raise"
}`, "invalid policy"},
		{"bad script", `player "x" {
  policy = "script"
  script = ["call"]
}`, "unknown action"},
		{"script on wrong policy", `player "x" {
  script = ["fold"]
}`, "only used with policy"},
		{"script without actions", `player "x" {
  policy = "script"
}`, "needs a script"},
		{"threshold out of range", `player "x" {
  policy    = "coward"
  threshold = 1.5
}`, "threshold must be in"},
		{"duplicate player", `player "x" {}
player "x" {}`, "listed twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCowardWithoutThreshold(t *testing.T) {
	cfg, err := Parse([]byte(`
player "nervous" {
  policy = "coward"
}
`), "coward.hcl")
	require.NoError(t, err)
	assert.Equal(t, policy.DefaultThreshold, cfg.Players[0].Threshold)

	_, roster, err := cfg.Build(nil)
	require.NoError(t, err)
	policies, err := roster.Policies(nil)
	require.NoError(t, err)
	assert.Equal(t, policy.Coward{Threshold: policy.DefaultThreshold}, policies[0])
}

func TestDefaultEliminatesFirstListedPlayer(t *testing.T) {
	table, roster, err := Default().Build(nil)
	require.NoError(t, err)

	out := game.Outcome{Status: game.Playing, Table: table}
	for !out.Terminal() {
		out = game.Resolve(out.Table, game.Trigger)
	}
	assert.Equal(t, game.PlayerEliminated, out.Status)
	assert.Equal(t, "p0", roster.Names()[out.Player])
}

func TestValidateSentinels(t *testing.T) {
	cfg := Default()
	cfg.Players = nil
	assert.ErrorIs(t, cfg.Validate(), ErrNoPlayers)

	cfg = Default()
	cfg.Revolver.Chambers = 0
	assert.ErrorIs(t, cfg.Validate(), ErrNoChambers)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte("revolver {\n  chambers = 2\n  loaded = [0]\n}\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Revolver.Chambers)
}

func TestBuildDefault(t *testing.T) {
	table, roster, err := Default().Build(nil)
	require.NoError(t, err)

	assert.Equal(t, []game.Chamber{game.Empty, game.Loaded, game.Empty, game.Empty, game.Empty, game.Empty}, table.Revolver.Chambers)

	// The first listed player acts first, so it sits at the end of the order.
	assert.Equal(t, []game.PlayerID{1, 0}, table.Hands.IDs())
	assert.Equal(t, map[game.PlayerID]string{0: "p0", 1: "p1"}, roster.Names())
}

func TestBuildShuffled(t *testing.T) {
	cfg := &Config{
		Revolver: &RevolverConfig{Chambers: 8, Bullets: 3, Shuffle: true},
		Players:  Default().Players,
	}

	table, _, err := cfg.Build(NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, 8, table.Revolver.Remaining())
	assert.Equal(t, 3, table.Revolver.LoadedCount())

	again, _, err := cfg.Build(NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, table, again, "same seed gives the same table")

	_, _, err = cfg.Build(nil)
	assert.ErrorContains(t, err, "random source")
}

func TestRosterPolicies(t *testing.T) {
	cfg, err := Parse([]byte(`
player "a" {
  policy = "script"
  script = ["slide"]
}
player "b" {
  policy = "random"
}
`), "t.hcl")
	require.NoError(t, err)

	_, roster, err := cfg.Build(nil)
	require.NoError(t, err)

	policies, err := roster.Policies(NewRand(1))
	require.NoError(t, err)
	assert.Len(t, policies, 2)

	_, err = roster.Policies(nil)
	assert.ErrorContains(t, err, "random source")
}

func TestRandom(t *testing.T) {
	table, roster := Random(NewRand(3), 6, 1, 4, "trigger")

	assert.Equal(t, 6, table.Revolver.Remaining())
	assert.Equal(t, 1, table.Revolver.LoadedCount())
	require.Len(t, roster, 4)
	assert.Len(t, table.Hands, 4)

	// Roster order is acting order.
	assert.Equal(t, roster[0].ID, table.Hands.Current().ID)
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, NewRand(1).Uint64(), NewRand(2).Uint64())
}

func TestRosterPlayers(t *testing.T) {
	_, roster, err := Default().Build(nil)
	require.NoError(t, err)

	players := roster.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "p0", players[0].Name)
	assert.Equal(t, "trigger", players[0].Policy)
	assert.Equal(t, game.PlayerID(1), players[1].ID)
}
