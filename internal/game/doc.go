// Package game implements the turn-resolution rules for a revolver elimination
// game.
//
// The main entry point is Resolve, which takes the current Table and the action
// chosen by the player whose turn it is, and returns the next Outcome. Resolve
// is a pure function: it never performs I/O, never consults randomness and
// never mutates memory reachable from the Table it was given.
//
// # Basic Usage
//
// Build a table and drive it until a terminal outcome:
//
//	t := game.NewTable(
//	    []game.Chamber{game.Empty, game.Loaded, game.Empty, game.Empty},
//	    0, 1,
//	)
//	for {
//	    out := game.Resolve(t, game.Trigger)
//	    if out.Terminal() {
//	        fmt.Println(out)
//	        break
//	    }
//	    t = out.Table
//	}
//
// # Turn Order
//
// The last Hand in a TurnOrder is the player whose turn it is. Advancing the
// turn records the action taken and rotates the last hand to the front.
// Chambers are consumed from the end of the Revolver's slice.
//
// # Contract Violations
//
// Operations on an empty TurnOrder panic. A caller reaches that state only by
// resolving actions after a terminal Outcome, which is a bug in the caller.
package game
