package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnOrderCurrent(t *testing.T) {
	t.Parallel()
	order := NewTurnOrder(3, 5, 9)
	assert.Equal(t, Hand{ID: 9}, order.Current())
	assert.Equal(t, []PlayerID{3, 5, 9}, order.IDs())
}

func TestTurnOrderFoldCurrent(t *testing.T) {
	t.Parallel()
	order := NewTurnOrder(3, 5, 9)

	folded := order.FoldCurrent()
	assert.Equal(t, PlayerID(9), folded.ID)
	assert.Equal(t, []PlayerID{3, 5}, order.IDs())
	assert.False(t, order.Contains(9))
}

func TestTurnOrderAdvance(t *testing.T) {
	t.Parallel()
	order := NewTurnOrder(0, 1, 2)

	order.Advance(Trigger)
	assert.Equal(t, TurnOrder{{ID: 2, PrevAction: Trigger}, {ID: 0}, {ID: 1}}, order)

	order.Advance(Slide)
	order.Advance(Fold)
	assert.Equal(t, TurnOrder{{ID: 0, PrevAction: Fold}, {ID: 1, PrevAction: Slide}, {ID: 2, PrevAction: Trigger}}, order)

	// A full lap brings the first player back.
	assert.Equal(t, PlayerID(2), order.Current().ID)
}

func TestTurnOrderSingleHandAdvance(t *testing.T) {
	t.Parallel()
	order := NewTurnOrder(4)
	order.Advance(Slide)
	assert.Equal(t, TurnOrder{{ID: 4, PrevAction: Slide}}, order)
}

func TestTurnOrderEmptyPanics(t *testing.T) {
	t.Parallel()
	var order TurnOrder

	assert.PanicsWithValue(t, "game: Current called on an empty turn order", func() { order.Current() })
	assert.PanicsWithValue(t, "game: FoldCurrent called on an empty turn order", func() { order.FoldCurrent() })
	assert.PanicsWithValue(t, "game: Advance called on an empty turn order", func() { order.Advance(Fold) })
}

func TestTableString(t *testing.T) {
	t.Parallel()
	table := Table{
		Revolver: NewRevolver(Empty, Loaded, Empty),
		Hands:    TurnOrder{{ID: 0, PrevAction: Slide}, {ID: 1}},
	}
	assert.Equal(t, "revolver=[.x.] hands=[p0(slide) p1]", table.String())
}

func TestViewFor(t *testing.T) {
	t.Parallel()
	table := Table{
		Revolver: NewRevolver(Empty, Loaded, Empty, Empty),
		Hands:    TurnOrder{{ID: 0}, {ID: 1, PrevAction: Slide}},
	}
	view := table.ViewFor(3)
	assert.Equal(t, View{Turn: 3, Player: 1, PrevAction: Slide, Chambers: 4, Bullets: 1, Players: 2}, view)
	assert.False(t, view.CanSlide())
	assert.InDelta(t, 0.25, view.LoadedOdds(), 1e-9)
	assert.Zero(t, View{}.LoadedOdds())
}
