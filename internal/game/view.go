package game

// View is the read-only information available to whoever chooses the next
// action. It never exposes the order of the remaining chambers.
type View struct {
	Turn       int // 1-based count of resolutions so far, including this one
	Player     PlayerID
	PrevAction Action
	Chambers   int // unfired chambers
	Bullets    int // unfired loaded chambers
	Players    int // seated hands, including the acting one
}

// CanSlide reports whether sliding would be accepted without being converted
// into a fold.
func (v View) CanSlide() bool {
	return v.PrevAction != Slide
}

// LoadedOdds is the chance that the next chamber holds a bullet, given only
// the counts visible in the view.
func (v View) LoadedOdds() float64 {
	if v.Chambers == 0 {
		return 0
	}
	return float64(v.Bullets) / float64(v.Chambers)
}

// ViewFor builds the view for the player whose turn it is.
func (t Table) ViewFor(turn int) View {
	current := t.Hands.Current()
	return View{
		Turn:       turn,
		Player:     current.ID,
		PrevAction: current.PrevAction,
		Chambers:   t.Revolver.Remaining(),
		Bullets:    t.Revolver.LoadedCount(),
		Players:    len(t.Hands),
	}
}
