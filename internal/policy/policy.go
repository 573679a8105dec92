// Package policy contains the built-in strategies that choose actions for a
// seat. Policies only make decisions; resolving them is the game package's job.
package policy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/lox/revolver/internal/game"
)

// Policy chooses the action for the player whose turn it is.
//
// Implementations may block (a remote bot, a human at a prompt) and should
// return ctx.Err() once ctx is done.
type Policy interface {
	Decide(ctx context.Context, view game.View) (game.Action, error)
}

// Func adapts a function to the Policy interface.
type Func func(ctx context.Context, view game.View) (game.Action, error)

func (f Func) Decide(ctx context.Context, view game.View) (game.Action, error) {
	return f(ctx, view)
}

// DefaultThreshold is the coward policy's threshold when none is given.
const DefaultThreshold = 0.5

// Options carries the parameters used by the policies that need them.
type Options struct {
	Script []game.Action
	// Threshold is the coward policy's folding point; zero means
	// DefaultThreshold.
	Threshold float64
	Rand      *rand.Rand
}

type factory func(opts Options) (Policy, error)

var registry = map[string]factory{
	"fold":    func(Options) (Policy, error) { return Always(game.Fold), nil },
	"slide":   func(Options) (Policy, error) { return Always(game.Slide), nil },
	"trigger": func(Options) (Policy, error) { return Always(game.Trigger), nil },
	"cautious": func(Options) (Policy, error) {
		return Cautious{}, nil
	},
	"script": func(opts Options) (Policy, error) {
		if len(opts.Script) == 0 {
			return nil, fmt.Errorf("script policy needs at least one action")
		}
		return NewScript(opts.Script...), nil
	},
	"random": func(opts Options) (Policy, error) {
		if opts.Rand == nil {
			return nil, fmt.Errorf("random policy needs a random source")
		}
		return NewRandom(opts.Rand), nil
	},
	"coward": func(opts Options) (Policy, error) {
		if opts.Threshold == 0 {
			opts.Threshold = DefaultThreshold
		}
		if opts.Threshold < 0 || opts.Threshold > 1 {
			return nil, fmt.Errorf("coward threshold must be in (0, 1], got %v", opts.Threshold)
		}
		return Coward{Threshold: opts.Threshold}, nil
	},
}

// New creates the named policy.
func New(name string, opts Options) (Policy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (known: %v)", name, Names())
	}
	return f(opts)
}

// Known reports whether name is a registered policy.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists the registered policies in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Always returns a policy that picks the same action every turn.
func Always(action game.Action) Policy {
	return Func(func(context.Context, game.View) (game.Action, error) {
		return action, nil
	})
}

// Cautious slides whenever a slide would be accepted and pulls the trigger
// otherwise, so it never folds by accident.
type Cautious struct{}

func (Cautious) Decide(_ context.Context, view game.View) (game.Action, error) {
	if view.CanSlide() {
		return game.Slide, nil
	}
	return game.Trigger, nil
}

// Coward folds once the visible odds of the next chamber being loaded reach
// Threshold.
type Coward struct {
	Threshold float64
}

func (c Coward) Decide(_ context.Context, view game.View) (game.Action, error) {
	if view.LoadedOdds() >= c.Threshold {
		return game.Fold, nil
	}
	return game.Trigger, nil
}

// Random picks uniformly among all actions. It is not safe for concurrent use.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Decide(context.Context, game.View) (game.Action, error) {
	return game.Actions[r.rng.IntN(len(game.Actions))], nil
}

// Script plays a fixed sequence of actions, then keeps pulling the trigger.
// Each Script tracks its own position and should be used for a single seat.
type Script struct {
	actions []game.Action
	next    int
}

func NewScript(actions ...game.Action) *Script {
	return &Script{actions: slices.Clone(actions)}
}

func (s *Script) Decide(context.Context, game.View) (game.Action, error) {
	if s.next >= len(s.actions) {
		return game.Trigger, nil
	}
	a := s.actions[s.next]
	s.next++
	return a, nil
}
