package game

import "fmt"

// Status tags the kind of Outcome a resolution produced.
type Status uint8

const (
	Playing Status = iota
	PlayerEliminated
	PlayerWon
	AllPlayersFolded
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case PlayerEliminated:
		return "player_eliminated"
	case PlayerWon:
		return "player_won"
	case AllPlayersFolded:
		return "all_players_folded"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Terminal reports whether no further resolution is possible.
func (s Status) Terminal() bool {
	return s != Playing
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Playing, PlayerEliminated, PlayerWon, AllPlayersFolded} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Outcome is the result of resolving one action.
//
// Table is only meaningful while Status is Playing. Player is only meaningful
// for PlayerEliminated and PlayerWon.
type Outcome struct {
	Status Status
	Table  Table
	Player PlayerID
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool {
	return o.Status.Terminal()
}

func (o Outcome) String() string {
	switch o.Status {
	case Playing:
		return "playing: " + o.Table.String()
	case PlayerEliminated:
		return fmt.Sprintf("%s was eliminated", o.Player)
	case PlayerWon:
		return fmt.Sprintf("%s won", o.Player)
	case AllPlayersFolded:
		return "all players folded"
	default:
		return o.Status.String()
	}
}

func playing(t Table) Outcome {
	return Outcome{Status: Playing, Table: t}
}
