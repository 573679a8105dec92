package setup

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/history"
	"github.com/lox/revolver/internal/policy"
)

// Seat links a player in the turn order to its configured name and policy.
type Seat struct {
	ID     game.PlayerID
	Name   string
	Config PlayerConfig
}

// Roster lists the seats in acting order.
type Roster []Seat

// Names maps player IDs to display names.
func (r Roster) Names() map[game.PlayerID]string {
	names := make(map[game.PlayerID]string, len(r))
	for _, s := range r {
		names[s.ID] = s.Name
	}
	return names
}

// Players describes the roster for a game transcript.
func (r Roster) Players() []history.Player {
	players := make([]history.Player, len(r))
	for i, s := range r {
		players[i] = history.Player{ID: s.ID, Name: s.Name, Policy: s.Config.Policy}
	}
	return players
}

// Policies instantiates each seat's policy. Policies that need randomness
// draw an independent stream from rng.
func (r Roster) Policies(rng *rand.Rand) (map[game.PlayerID]policy.Policy, error) {
	policies := make(map[game.PlayerID]policy.Policy, len(r))
	for _, s := range r {
		opts := policy.Options{Threshold: s.Config.Threshold}
		for _, name := range s.Config.Script {
			a, err := game.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("player %s: %w", s.Name, err)
			}
			opts.Script = append(opts.Script, a)
		}
		if rng != nil {
			opts.Rand = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
		}

		p, err := policy.New(s.Config.Policy, opts)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", s.Name, err)
		}
		policies[s.ID] = p
	}
	return policies, nil
}

// Build creates the opening table. rng is only consulted when the revolver is
// shuffled and may be nil otherwise.
func (c *Config) Build(rng *rand.Rand) (game.Table, Roster, error) {
	if err := c.Validate(); err != nil {
		return game.Table{}, nil, err
	}

	var chambers []game.Chamber
	if c.Revolver.Shuffle {
		if rng == nil {
			return game.Table{}, nil, fmt.Errorf("shuffled revolver needs a random source")
		}
		chambers = LoadChambers(rng, c.Revolver.Chambers, c.Revolver.Bullets)
	} else {
		chambers = make([]game.Chamber, c.Revolver.Chambers)
		for _, pos := range c.Revolver.Loaded {
			chambers[pos] = game.Loaded
		}
	}

	roster := make(Roster, len(c.Players))
	for i, p := range c.Players {
		roster[i] = Seat{ID: game.PlayerID(i), Name: p.Name, Config: p}
	}
	return game.NewTable(chambers, seatingOrder(roster)...), roster, nil
}

// seatingOrder reverses the roster: the turn order's last hand acts first.
func seatingOrder(r Roster) []game.PlayerID {
	ids := make([]game.PlayerID, len(r))
	for i, s := range r {
		ids[len(r)-1-i] = s.ID
	}
	return ids
}

// LoadChambers returns chambers with bullets placed at random positions.
func LoadChambers(rng *rand.Rand, chambers, bullets int) []game.Chamber {
	out := make([]game.Chamber, chambers)
	for _, pos := range rng.Perm(chambers)[:min(bullets, chambers)] {
		out[pos] = game.Loaded
	}
	return out
}

// Random builds a table with bullets placed at random among chambers and
// players seated in random order. Every seat plays policyName.
func Random(rng *rand.Rand, chambers, bullets, players int, policyName string) (game.Table, Roster) {
	roster := make(Roster, players)
	for i := range roster {
		name := fmt.Sprintf("p%d", i)
		roster[i] = Seat{
			ID:     game.PlayerID(i),
			Name:   name,
			Config: PlayerConfig{Name: name, Policy: policyName},
		}
	}
	rng.Shuffle(len(roster), func(i, j int) { roster[i], roster[j] = roster[j], roster[i] })

	return game.NewTable(LoadChambers(rng, chambers, bullets), seatingOrder(roster)...), slices.Clip(roster)
}

const goldenGamma = 0x9e3779b97f4a7c15

// NewRand returns a PCG source fully determined by seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(s), splitmix(s+goldenGamma)))
}

func splitmix(z uint64) uint64 {
	z += goldenGamma
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb
	return z ^ z>>31
}
