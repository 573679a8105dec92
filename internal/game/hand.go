package game

import "strconv"

// PlayerID identifies a player for the lifetime of a game.
type PlayerID int

func (id PlayerID) String() string {
	return "p" + strconv.Itoa(int(id))
}

// Hand is a player's seat at the table.
type Hand struct {
	ID PlayerID
	// PrevAction is the last action this player took, NoAction before their
	// first turn. Only used to detect a repeated slide.
	PrevAction Action
}

// TurnOrder is the rotating sequence of active hands. The last element is the
// hand whose turn it is.
type TurnOrder []Hand

// NewTurnOrder seats the players in the given order. The last player listed
// acts first.
func NewTurnOrder(ids ...PlayerID) TurnOrder {
	order := make(TurnOrder, len(ids))
	for i, id := range ids {
		order[i] = Hand{ID: id}
	}
	return order
}

// Current returns the hand whose turn it is.
func (o TurnOrder) Current() Hand {
	o.mustHaveHands("Current")
	return o[len(o)-1]
}

// FoldCurrent removes the current hand from the order and returns it.
func (o *TurnOrder) FoldCurrent() Hand {
	o.mustHaveHands("FoldCurrent")
	last := len(*o) - 1
	h := (*o)[last]
	*o = (*o)[:last]
	return h
}

// Advance records action against the current hand and passes the turn to the
// next hand.
func (o TurnOrder) Advance(action Action) {
	o.mustHaveHands("Advance")
	last := len(o) - 1
	o[last].PrevAction = action

	current := o[last]
	copy(o[1:], o[:last])
	o[0] = current
}

// Contains reports whether the player still holds a seat.
func (o TurnOrder) Contains(id PlayerID) bool {
	for _, h := range o {
		if h.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the seated players in turn order, current player last.
func (o TurnOrder) IDs() []PlayerID {
	ids := make([]PlayerID, len(o))
	for i, h := range o {
		ids[i] = h.ID
	}
	return ids
}

func (o TurnOrder) mustHaveHands(op string) {
	if len(o) == 0 {
		panic("game: " + op + " called on an empty turn order")
	}
}

func (o TurnOrder) clone() TurnOrder {
	return append(TurnOrder(nil), o...)
}
