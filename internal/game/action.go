package game

import (
	"fmt"
	"strings"
)

// Action is the choice made by the player whose turn it is.
type Action uint8

const (
	// NoAction marks a hand that has not acted yet.
	NoAction Action = iota
	Fold
	Slide
	Trigger
)

// Actions lists every action a player can choose.
var Actions = []Action{Fold, Slide, Trigger}

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case NoAction:
		return "none"
	case Fold:
		return "fold"
	case Slide:
		return "slide"
	case Trigger:
		return "trigger"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ParseAction parses an action name. Single letter shorthands (f, s, t) and
// "pass"/"pull" are accepted for the benefit of humans typing at a prompt.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "slide", "s", "pass":
		return Slide, nil
	case "trigger", "t", "pull":
		return Trigger, nil
	case "none", "":
		return NoAction, nil
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts anything ParseAction does.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
