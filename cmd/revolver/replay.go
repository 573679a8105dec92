package main

import (
	"fmt"

	"github.com/lox/revolver/internal/history"
)

// ReplayCmd re-resolves saved games and reports whether they match the rules.
type ReplayCmd struct {
	Files   []string `arg:"" type:"existingfile" help:"Game history files"`
	Verbose bool     `short:"V" help:"Print every step"`
}

func (c *ReplayCmd) Run() error {
	var failed int
	for _, path := range c.Files {
		g, err := history.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if c.Verbose {
			fmt.Printf("%s (seed %d, started %s)\n", g.ID, g.Seed, g.Started.Format("2006-01-02 15:04:05"))
			for _, s := range g.Steps {
				line := fmt.Sprintf("  %3d  %-10s %-8s -> %s", s.Turn, g.Name(s.Player), s.Action, s.Status)
				if s.Fallback != "" {
					line += fmt.Sprintf(" (%s)", s.Fallback)
				}
				fmt.Println(line)
			}
		}

		if err := history.Replay(g); err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Printf("ok   %s: %s\n", path, g.Summary())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d games did not replay", failed, len(c.Files))
	}
	return nil
}
