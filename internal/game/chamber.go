package game

import (
	"fmt"
	"strings"
)

// Chamber is one position in the revolver's cylinder.
type Chamber uint8

const (
	Empty Chamber = iota
	Loaded
)

func (c Chamber) String() string {
	switch c {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	default:
		return fmt.Sprintf("chamber(%d)", uint8(c))
	}
}

// ParseChamber accepts "empty"/"loaded" as well as the "." and "x" glyphs used
// by Revolver.String.
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty", ".", "e":
		return Empty, nil
	case "loaded", "bullet", "x", "l":
		return Loaded, nil
	}
	return Empty, fmt.Errorf("unknown chamber %q", s)
}

// MarshalText encodes the chamber as "empty" or "loaded".
func (c Chamber) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything ParseChamber does.
func (c *Chamber) UnmarshalText(text []byte) error {
	parsed, err := ParseChamber(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Shot is the result of pulling the trigger.
type Shot uint8

const (
	Blank Shot = iota
	Fired
)

func (s Shot) String() string {
	if s == Fired {
		return "fired"
	}
	return "blank"
}

// Revolver holds the chambers that have not been fired yet. The chamber at the
// end of the slice is the next one under the hammer.
type Revolver struct {
	Chambers []Chamber
}

// NewRevolver creates a revolver from chambers listed in cylinder order.
func NewRevolver(chambers ...Chamber) Revolver {
	return Revolver{Chambers: append([]Chamber(nil), chambers...)}
}

// Pull consumes the next chamber. Pulling an exhausted revolver is a blank.
func (r *Revolver) Pull() Shot {
	n := len(r.Chambers)
	if n == 0 {
		return Blank
	}
	c := r.Chambers[n-1]
	r.Chambers = r.Chambers[:n-1]
	if c == Loaded {
		return Fired
	}
	return Blank
}

// Remaining returns the number of unfired chambers.
func (r Revolver) Remaining() int {
	return len(r.Chambers)
}

// Exhausted reports whether every chamber has been fired.
func (r Revolver) Exhausted() bool {
	return len(r.Chambers) == 0
}

// LoadedCount returns how many unfired chambers hold a bullet.
func (r Revolver) LoadedCount() int {
	count := 0
	for _, c := range r.Chambers {
		if c == Loaded {
			count++
		}
	}
	return count
}

// String renders the cylinder as glyphs, e.g. ".x....", next chamber last.
func (r Revolver) String() string {
	var sb strings.Builder
	for _, c := range r.Chambers {
		if c == Loaded {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (r Revolver) clone() Revolver {
	return Revolver{Chambers: append([]Chamber(nil), r.Chambers...)}
}
