package game

import "fmt"

// Resolve applies action for the player whose turn it is and returns the
// resulting Outcome. The given table is not modified.
//
// Resolve panics if the table has no hands or if action is not one of Fold,
// Slide or Trigger.
func Resolve(t Table, action Action) Outcome {
	return resolve(t.Clone(), action)
}

// resolve works on a table it owns.
func resolve(t Table, action Action) Outcome {
	switch action {
	case Fold:
		return resolveFold(t)
	case Slide:
		return resolveSlide(t)
	case Trigger:
		return resolveTrigger(t)
	default:
		panic(fmt.Sprintf("game: cannot resolve %v", action))
	}
}

func resolveFold(t Table) Outcome {
	t.Hands.FoldCurrent()
	if len(t.Hands) == 0 {
		return Outcome{Status: AllPlayersFolded}
	}
	t.Hands.Advance(Fold)
	return playing(t)
}

func resolveSlide(t Table) Outcome {
	if t.Hands.Current().PrevAction == Slide {
		return resolve(t, Fold)
	}
	t.Hands.Advance(Slide)
	return playing(t)
}

func resolveTrigger(t Table) Outcome {
	t.Hands.mustHaveHands("Trigger")
	switch t.Revolver.Pull() {
	case Fired:
		return Outcome{Status: PlayerEliminated, Player: t.Hands.FoldCurrent().ID}
	default:
		if t.Revolver.Exhausted() {
			return Outcome{Status: PlayerWon, Player: t.Hands.FoldCurrent().ID}
		}
		t.Hands.Advance(Trigger)
		return playing(t)
	}
}
