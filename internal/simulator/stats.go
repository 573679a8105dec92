package simulator

import (
	"fmt"
	"io"

	"github.com/lox/revolver/internal/game"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed   int64
	Status game.Status
	// Position is the acting position (0 acts first) of the eliminated or
	// winning player, -1 when everybody folded.
	Position  int
	Turns     int
	Fallbacks int
}

// Stats aggregates simulated games.
type Stats struct {
	Games      int
	Outcomes   map[game.Status]int
	Eliminated []int // by acting position
	Won        []int // by acting position
	TotalTurns int
	MaxTurns   int
	Fallbacks  int
}

// NewStats creates empty statistics for tables of the given size.
func NewStats(players int) *Stats {
	return &Stats{
		Outcomes:   make(map[game.Status]int),
		Eliminated: make([]int, players),
		Won:        make([]int, players),
	}
}

// Add records one game.
func (s *Stats) Add(r GameResult) {
	s.Games++
	s.Outcomes[r.Status]++
	s.TotalTurns += r.Turns
	s.MaxTurns = max(s.MaxTurns, r.Turns)
	s.Fallbacks += r.Fallbacks

	if r.Position < 0 || r.Position >= len(s.Won) {
		return
	}
	switch r.Status {
	case game.PlayerEliminated:
		s.Eliminated[r.Position]++
	case game.PlayerWon:
		s.Won[r.Position]++
	}
}

// MeanTurns returns the average number of turns per game.
func (s *Stats) MeanTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Games)
}

// Rate returns the share of games that ended with status.
func (s *Stats) Rate(status game.Status) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Outcomes[status]) / float64(s.Games)
}

// Validate checks the counters are consistent with each other.
func (s *Stats) Validate() error {
	total := 0
	for status, n := range s.Outcomes {
		if !status.Terminal() {
			return fmt.Errorf("%d games recorded as %s", n, status)
		}
		total += n
	}
	if total != s.Games {
		return fmt.Errorf("outcomes add up to %d, expected %d games", total, s.Games)
	}

	sum := func(xs []int) int {
		n := 0
		for _, x := range xs {
			n += x
		}
		return n
	}
	if got := sum(s.Eliminated); got != s.Outcomes[game.PlayerEliminated] {
		return fmt.Errorf("eliminations by position add up to %d, expected %d", got, s.Outcomes[game.PlayerEliminated])
	}
	if got := sum(s.Won); got != s.Outcomes[game.PlayerWon] {
		return fmt.Errorf("wins by position add up to %d, expected %d", got, s.Outcomes[game.PlayerWon])
	}
	return nil
}

// Print writes a human readable report.
func (s *Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "Games:        %d\n", s.Games)
	fmt.Fprintf(w, "Mean turns:   %.2f (max %d)\n", s.MeanTurns(), s.MaxTurns)
	fmt.Fprintf(w, "Fallbacks:    %d\n", s.Fallbacks)
	fmt.Fprintln(w)
	for _, status := range []game.Status{game.PlayerEliminated, game.PlayerWon, game.AllPlayersFolded} {
		fmt.Fprintf(w, "%-20s %6d  %5.1f%%\n", status, s.Outcomes[status], 100*s.Rate(status))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-9s %10s %6s\n", "Position", "Eliminated", "Won")
	for pos := range s.Won {
		fmt.Fprintf(w, "%-9d %10d %6d\n", pos+1, s.Eliminated[pos], s.Won[pos])
	}
}
