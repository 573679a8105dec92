package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevolverPull(t *testing.T) {
	t.Parallel()
	r := NewRevolver(Loaded, Empty, Empty)

	assert.Equal(t, Blank, r.Pull())
	assert.Equal(t, 2, r.Remaining())
	assert.Equal(t, Blank, r.Pull())
	assert.Equal(t, Fired, r.Pull())
	assert.True(t, r.Exhausted())

	// Exhausted revolvers keep clicking.
	assert.Equal(t, Blank, r.Pull())
	assert.Equal(t, 0, r.Remaining())
}

func TestNewRevolverCopiesChambers(t *testing.T) {
	t.Parallel()
	chambers := []Chamber{Empty, Loaded}
	r := NewRevolver(chambers...)
	r.Pull()
	assert.Equal(t, []Chamber{Empty, Loaded}, chambers)
}

func TestRevolverLoadedCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, NewRevolver(Loaded, Empty, Loaded).LoadedCount())
	assert.Equal(t, 0, Revolver{}.LoadedCount())
}

func TestParseChamber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Chamber
		wantErr bool
	}{
		{"empty", Empty, false},
		{".", Empty, false},
		{"Loaded", Loaded, false},
		{"x", Loaded, false},
		{"bullet", Loaded, false},
		{"half", Empty, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChamber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()
	tests := map[string]Action{
		"fold":    Fold,
		"F":       Fold,
		"slide":   Slide,
		"pass":    Slide,
		"trigger": Trigger,
		" t ":     Trigger,
		"none":    NoAction,
	}
	for in, want := range tests {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("raise")
	assert.ErrorContains(t, err, "unknown action")
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()
	assert.False(t, Playing.Terminal())
	assert.True(t, PlayerEliminated.Terminal())
	assert.True(t, PlayerWon.Terminal())
	assert.True(t, AllPlayersFolded.Terminal())

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("player_won")))
	assert.Equal(t, PlayerWon, s)
	assert.Error(t, s.UnmarshalText([]byte("draw")))
}

func TestTextEncoding(t *testing.T) {
	t.Parallel()

	text, err := Trigger.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "trigger", string(text))

	var a Action
	require.NoError(t, a.UnmarshalText([]byte("pull")))
	assert.Equal(t, Trigger, a)

	text, err = Loaded.MarshalText()
	require.NoError(t, err)
	var c Chamber
	require.NoError(t, c.UnmarshalText(text))
	assert.Equal(t, Loaded, c)
	assert.Error(t, c.UnmarshalText([]byte("half")))
}
