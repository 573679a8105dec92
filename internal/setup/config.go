// Package setup builds the opening table of a game: how the revolver is
// loaded and who sits where.
package setup

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/policy"
)

var (
	ErrNoPlayers  = errors.New("at least one player must be configured")
	ErrNoChambers = errors.New("revolver needs at least one chamber")
)

// Config is the HCL representation of a table setup:
//
//	revolver {
//	  chambers = 6
//	  loaded   = [1]
//	}
//
//	player "alice" {
//	  policy = "trigger"
//	}
type Config struct {
	Revolver *RevolverConfig `hcl:"revolver,block"`
	Players  []PlayerConfig  `hcl:"player,block"`
}

// RevolverConfig describes the cylinder. Loaded lists chamber indices as
// written; the last chamber is the first to be fired. With Shuffle set the
// Bullets count is placed at random instead.
type RevolverConfig struct {
	Chambers int   `hcl:"chambers,optional"`
	Loaded   []int `hcl:"loaded,optional"`
	Bullets  int   `hcl:"bullets,optional"`
	Shuffle  bool  `hcl:"shuffle,optional"`
}

// PlayerConfig seats one player. Players act in the order they are listed.
type PlayerConfig struct {
	Name      string   `hcl:"name,label"`
	Policy    string   `hcl:"policy,optional"`
	Script    []string `hcl:"script,optional"`
	Threshold float64  `hcl:"threshold,optional"`
}

// Default returns the classic heads-up table: six chambers, one bullet in the
// second position, two players pulling the trigger every turn. Players act in
// the order listed, so p0 pulls first and takes the fifth pull, the loaded
// one.
func Default() *Config {
	return &Config{
		Revolver: &RevolverConfig{
			Chambers: 6,
			Loaded:   []int{1},
		},
		Players: []PlayerConfig{
			{Name: "p0", Policy: "trigger"},
			{Name: "p1", Policy: "trigger"},
		},
	}
}

// Load reads an HCL setup file. A missing file yields the default setup.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read setup file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, applies defaults and validates the result.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Revolver == nil {
		c.Revolver = defaults.Revolver
	}
	if c.Revolver.Chambers == 0 {
		c.Revolver.Chambers = defaults.Revolver.Chambers
	}
	if c.Revolver.Shuffle && c.Revolver.Bullets == 0 {
		c.Revolver.Bullets = max(len(c.Revolver.Loaded), 1)
	}
	if !c.Revolver.Shuffle && len(c.Revolver.Loaded) == 0 && c.Revolver.Bullets == 0 {
		c.Revolver.Loaded = defaults.Revolver.Loaded
	}
	if len(c.Players) == 0 {
		c.Players = defaults.Players
	}
	for i := range c.Players {
		if c.Players[i].Policy == "" {
			c.Players[i].Policy = "trigger"
		}
		if c.Players[i].Policy == "coward" && c.Players[i].Threshold == 0 {
			c.Players[i].Threshold = policy.DefaultThreshold
		}
	}
}

// Validate checks the configuration for errors a game could not start with.
func (c *Config) Validate() error {
	if c.Revolver == nil || c.Revolver.Chambers < 1 {
		return ErrNoChambers
	}
	if len(c.Players) == 0 {
		return ErrNoPlayers
	}

	r := c.Revolver
	if r.Shuffle {
		if r.Bullets < 0 || r.Bullets > r.Chambers {
			return fmt.Errorf("bullets must be between 0 and %d, got %d", r.Chambers, r.Bullets)
		}
	} else {
		if r.Bullets != 0 {
			return fmt.Errorf("bullets is only used with shuffle = true; list positions in loaded instead")
		}
		seen := make(map[int]bool)
		for _, pos := range r.Loaded {
			if pos < 0 || pos >= r.Chambers {
				return fmt.Errorf("loaded chamber %d out of range [0, %d)", pos, r.Chambers)
			}
			if seen[pos] {
				return fmt.Errorf("chamber %d loaded twice", pos)
			}
			seen[pos] = true
		}
	}

	names := make(map[string]bool)
	for _, p := range c.Players {
		if names[p.Name] {
			return fmt.Errorf("player %q listed twice", p.Name)
		}
		names[p.Name] = true

		if !policy.Known(p.Policy) {
			return fmt.Errorf("player %s: invalid policy %s (known: %v)", p.Name, p.Policy, policy.Names())
		}
		for _, s := range p.Script {
			a, err := game.ParseAction(s)
			if err != nil {
				return fmt.Errorf("player %s: %w", p.Name, err)
			}
			if a == game.NoAction {
				return fmt.Errorf("player %s: script entries must be fold, slide or trigger", p.Name)
			}
		}
		if len(p.Script) > 0 && p.Policy != "script" {
			return fmt.Errorf("player %s: script is only used with policy = \"script\"", p.Name)
		}
		if p.Policy == "script" && len(p.Script) == 0 {
			return fmt.Errorf("player %s: policy = \"script\" needs a script", p.Name)
		}
		if p.Threshold < 0 || p.Threshold > 1 {
			return fmt.Errorf("player %s: threshold must be in (0, 1], got %v", p.Name, p.Threshold)
		}
	}
	return nil
}
