package game

import (
	"fmt"
	"strings"
)

// Table is a full snapshot of a game in progress.
type Table struct {
	Revolver Revolver
	Hands    TurnOrder
}

// NewTable seats players in the given order (last listed acts first) in front
// of a revolver loaded with chambers.
func NewTable(chambers []Chamber, players ...PlayerID) Table {
	return Table{
		Revolver: NewRevolver(chambers...),
		Hands:    NewTurnOrder(players...),
	}
}

// Clone returns a deep copy that shares no memory with t.
func (t Table) Clone() Table {
	return Table{
		Revolver: t.Revolver.clone(),
		Hands:    t.Hands.clone(),
	}
}

func (t Table) String() string {
	hands := make([]string, len(t.Hands))
	for i, h := range t.Hands {
		if h.PrevAction == NoAction {
			hands[i] = h.ID.String()
		} else {
			hands[i] = fmt.Sprintf("%s(%s)", h.ID, h.PrevAction)
		}
	}
	return fmt.Sprintf("revolver=[%s] hands=[%s]", t.Revolver, strings.Join(hands, " "))
}
