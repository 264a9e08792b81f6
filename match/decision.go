package match

import (
	"math/rand"

	"github.com/zucenko/territory/model"
)

const (
	mediumSmartness = 0.7
	hardSmartness   = 0.9
	searchDepth     = 3
)

// Brain picks moves for players that are not driven by input.
type Brain struct {
	rnd *rand.Rand
}

func NewBrain(rnd *rand.Rand) *Brain {
	return &Brain{rnd: rnd}
}

// Decide returns the next destination for p, or its current position when
// no neighbour exists.
func (b *Brain) Decide(g *model.Grid, positions [2]model.Position, p model.PlayerId, d model.Difficulty) model.Position {
	pos := positions[p]
	candidates := g.Neighbours(pos)
	if len(candidates) == 0 {
		return pos
	}

	for _, c := range candidates {
		if g.PowerUpAt(c) != model.NoPowerUp {
			return c
		}
	}

	switch d {
	case model.Easy:
		return b.any(candidates)
	case model.Expert:
		return bestBySearch(g, positions, p, candidates, searchDepth)
	}

	smartness := mediumSmartness
	if d == model.Hard {
		smartness = hardSmartness
	}
	good := make([]model.Position, 0, len(candidates))
	for _, c := range candidates {
		if g.OwnerOf(c) != p {
			good = append(good, c)
		}
	}
	if len(good) > 0 && b.rnd.Float64() < smartness {
		return b.any(good)
	}
	return b.any(candidates)
}

func (b *Brain) any(moves []model.Position) model.Position {
	return moves[b.rnd.Intn(len(moves))]
}
