package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/revolver/internal/history"
)

func TestPlayThenReplay(t *testing.T) {
	dir := t.TempDir()
	setupFile := filepath.Join(dir, "table.hcl")
	require.NoError(t, os.WriteFile(setupFile, []byte(`
revolver {
  chambers = 6
  loaded   = [1]
}

player "alice" {
  policy = "trigger"
}

player "bob" {
  policy = "cautious"
}
`), 0o644))

	play := &PlayCmd{Config: setupFile, Seed: 7, Save: dir}
	require.NoError(t, play.Run())

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	g, err := history.LoadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, int64(7), g.Seed)
	assert.Equal(t, "alice", g.Name(0))
	assert.Equal(t, "bob", g.Name(1))

	replay := &ReplayCmd{Files: files, Verbose: true}
	assert.NoError(t, replay.Run())
}

func TestReplayDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, (&PlayCmd{Seed: 3, Save: dir}).Run())

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	g, err := history.LoadFile(files[0])
	require.NoError(t, err)
	g.Result.Turns++
	g.Steps = g.Steps[:len(g.Steps)-1]
	_, err = history.SaveFile(dir, g)
	require.NoError(t, err)

	err = (&ReplayCmd{Files: files}).Run()
	assert.ErrorContains(t, err, "1 of 1 games did not replay")
}

func TestPlayRejectsMissingSetupFile(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, append(options(), kong.Writers(io.Discard, io.Discard))...)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"play", "-c", filepath.Join(t.TempDir(), "tabel.hcl")})
	assert.Error(t, err)

	setupFile := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(setupFile, []byte("player \"a\" {}\n"), 0o644))
	_, err = parser.Parse([]string{"play", "-c", setupFile})
	require.NoError(t, err)
	assert.Equal(t, setupFile, cli.Play.Config)
}

func TestSimulateCoward(t *testing.T) {
	cmd := &SimulateCmd{
		Games:     20,
		Players:   3,
		Chambers:  6,
		Bullets:   1,
		Policy:    []string{"cautious", "coward"},
		Threshold: 0.5,
		Seed:      11,
		Timeout:   5 * time.Second,
	}
	assert.NoError(t, cmd.Run())
}

func TestTUIRejectsScriptBots(t *testing.T) {
	err := (&TUICmd{Players: 2, Chambers: 6, Bullets: 1, Bots: "script"}).Run()
	assert.ErrorContains(t, err, "script policy needs a setup file")
}
