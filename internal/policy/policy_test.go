package policy

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/revolver/internal/game"
)

func decide(t *testing.T, p Policy, view game.View) game.Action {
	t.Helper()
	a, err := p.Decide(context.Background(), view)
	require.NoError(t, err)
	return a
}

func TestAlways(t *testing.T) {
	for _, a := range game.Actions {
		assert.Equal(t, a, decide(t, Always(a), game.View{}))
	}
}

func TestCautious(t *testing.T) {
	p := Cautious{}
	assert.Equal(t, game.Slide, decide(t, p, game.View{PrevAction: game.Trigger}))
	assert.Equal(t, game.Slide, decide(t, p, game.View{}))
	assert.Equal(t, game.Trigger, decide(t, p, game.View{PrevAction: game.Slide}))
}

func TestCoward(t *testing.T) {
	p := Coward{Threshold: 0.5}
	assert.Equal(t, game.Trigger, decide(t, p, game.View{Chambers: 6, Bullets: 1}))
	assert.Equal(t, game.Fold, decide(t, p, game.View{Chambers: 2, Bullets: 1}))
	assert.Equal(t, game.Trigger, decide(t, p, game.View{Chambers: 0}))
}

func TestCowardDefaultThreshold(t *testing.T) {
	p, err := New("coward", Options{})
	require.NoError(t, err)
	assert.Equal(t, Coward{Threshold: DefaultThreshold}, p)
}

func TestScript(t *testing.T) {
	p := NewScript(game.Slide, game.Fold)
	assert.Equal(t, game.Slide, decide(t, p, game.View{}))
	assert.Equal(t, game.Fold, decide(t, p, game.View{}))
	assert.Equal(t, game.Trigger, decide(t, p, game.View{}), "exhausted scripts pull the trigger")
}

func TestRandomCoversEveryAction(t *testing.T) {
	p := NewRandom(rand.New(rand.NewPCG(5, 5)))
	seen := map[game.Action]int{}
	for i := 0; i < 300; i++ {
		seen[decide(t, p, game.View{})]++
	}
	for _, a := range game.Actions {
		assert.Positive(t, seen[a], "never chose %s", a)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "trigger"},
		{name: "fold"},
		{name: "slide"},
		{name: "cautious"},
		{name: "script", opts: Options{Script: []game.Action{game.Slide}}},
		{name: "script", wantErr: "at least one action"},
		{name: "random", opts: Options{Rand: rand.New(rand.NewPCG(1, 1))}},
		{name: "random", wantErr: "random source"},
		{name: "coward", opts: Options{Threshold: 0.3}},
		{name: "coward"},
		{name: "coward", opts: Options{Threshold: 2}, wantErr: "threshold"},
		{name: "coward", opts: Options{Threshold: -0.1}, wantErr: "threshold"},
		{name: "bluff", wantErr: "unknown policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.wantErr, func(t *testing.T) {
			p, err := New(tt.name, tt.opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cautious", "coward", "fold", "random", "script", "slide", "trigger"}, Names())
	assert.True(t, Known("coward"))
	assert.False(t, Known("raise"))
}
