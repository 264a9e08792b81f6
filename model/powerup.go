package model

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"
)

type PowerUpKind int

const (
	NoPowerUp PowerUpKind = iota
	Freeze
	Bonus
	Shield
	SpeedBoost
	TerritoryBomb
	DoublePoints
)

// PowerUpKinds lists every kind in catalog order.
var PowerUpKinds = [...]PowerUpKind{Freeze, Bonus, Shield, SpeedBoost, TerritoryBomb, DoublePoints}

type PowerUpSpec struct {
	Kind        PowerUpKind
	Name        string
	Description string
	Color       color.RGBA
	// Duration is nominal (1s) for instantaneous kinds.
	Duration    time.Duration
	SpawnWeight int
}

var catalog = map[PowerUpKind]PowerUpSpec{
	Freeze: {
		Kind: Freeze, Name: "Freeze", Description: "Freezes opponent for 5s",
		Color: color.RGBA{0, 255, 0, 255}, Duration: 5 * time.Second, SpawnWeight: 1,
	},
	Bonus: {
		Kind: Bonus, Name: "Bonus", Description: "Claim +1 tile",
		Color: color.RGBA{255, 255, 0, 255}, Duration: time.Second, SpawnWeight: 1,
	},
	Shield: {
		Kind: Shield, Name: "Shield", Description: "Tile immunity 5s",
		Color: color.RGBA{0, 0, 255, 255}, Duration: 5 * time.Second, SpawnWeight: 1,
	},
	SpeedBoost: {
		Kind: SpeedBoost, Name: "Speed", Description: "Double speed 5s",
		Color: color.RGBA{255, 0, 0, 255}, Duration: 5 * time.Second, SpawnWeight: 1,
	},
	TerritoryBomb: {
		Kind: TerritoryBomb, Name: "Bomb", Description: "Claim adjacent tiles",
		Color: color.RGBA{255, 165, 0, 255}, Duration: time.Second, SpawnWeight: 1,
	},
	DoublePoints: {
		Kind: DoublePoints, Name: "Double Points", Description: "Double points 5s",
		Color: color.RGBA{0, 255, 128, 255}, Duration: 5 * time.Second, SpawnWeight: 1,
	},
}

// Catalog returns a copy of the power-up table in catalog order.
func Catalog() []PowerUpSpec {
	specs := make([]PowerUpSpec, 0, len(PowerUpKinds))
	for _, k := range PowerUpKinds {
		specs = append(specs, catalog[k])
	}
	return specs
}

func (k PowerUpKind) Spec() (PowerUpSpec, bool) {
	s, ok := catalog[k]
	return s, ok
}

func (k PowerUpKind) Duration() time.Duration {
	return catalog[k].Duration
}

func (k PowerUpKind) String() string {
	if s, ok := catalog[k]; ok {
		return s.Name
	}
	if k == NoPowerUp {
		return "none"
	}
	return fmt.Sprintf("n/a:%d", int(k))
}

// Effect maps a buff kind to the timed effect it activates.
func (k PowerUpKind) Effect() (Effect, bool) {
	switch k {
	case Shield:
		return EffectShield, true
	case SpeedBoost:
		return EffectSpeedBoost, true
	case DoublePoints:
		return EffectDoublePoints, true
	}
	return 0, false
}

type Spawner struct {
	rnd   *rand.Rand
	specs []PowerUpSpec
	total int
}

// NewSpawner samples kinds from specs by SpawnWeight. A nil specs uses the
// catalog.
func NewSpawner(rnd *rand.Rand, specs []PowerUpSpec) *Spawner {
	if specs == nil {
		specs = Catalog()
	}
	total := 0
	for _, s := range specs {
		if s.SpawnWeight > 0 {
			total += s.SpawnWeight
		}
	}
	return &Spawner{rnd: rnd, specs: specs, total: total}
}

// Spawn places one power-up on a random cell that has none.
func (s *Spawner) Spawn(g *Grid) (Position, PowerUpKind, bool) {
	free := make([]Position, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.PowerUps[r][c] == NoPowerUp {
				free = append(free, Position{Row: r, Col: c})
			}
		}
	}
	if len(free) == 0 {
		return Position{}, NoPowerUp, false
	}
	pos := free[s.rnd.Intn(len(free))]
	kind, ok := s.pick()
	if !ok {
		return Position{}, NoPowerUp, false
	}
	g.PlacePowerUp(pos, kind)
	return pos, kind, true
}

func (s *Spawner) pick() (PowerUpKind, bool) {
	if s.total <= 0 {
		return NoPowerUp, false
	}
	n := s.rnd.Intn(s.total)
	for _, spec := range s.specs {
		if spec.SpawnWeight <= 0 {
			continue
		}
		if n < spec.SpawnWeight {
			return spec.Kind, true
		}
		n -= spec.SpawnWeight
	}
	return NoPowerUp, false
}
