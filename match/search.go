package match

import (
	"math"

	"github.com/zucenko/territory/model"
)

// heuristic scores a board for p: owned cells, mobility and closeness to
// the centre.
func heuristic(g *model.Grid, positions [2]model.Position, p model.PlayerId) float64 {
	owned := g.Tally()[p]
	mobility := len(g.Neighbours(positions[p]))
	center := model.Position{Row: g.Rows / 2, Col: g.Cols / 2}
	return float64(owned) + 0.2*float64(mobility) - 0.05*float64(positions[p].Distance(center))
}

// minimax alternates turns starting with mover. Moves steal the target cell
// and are undone after evaluation.
func minimax(g *model.Grid, positions [2]model.Position, mover, maxPlayer model.PlayerId, depth int) float64 {
	moves := g.Neighbours(positions[mover])
	if depth == 0 || len(moves) == 0 {
		return heuristic(g, positions, maxPlayer)
	}
	maximizing := mover == maxPlayer
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, m := range moves {
		v := withMove(g, &positions, mover, m, func() float64 {
			return minimax(g, positions, mover.Opponent(), maxPlayer, depth-1)
		})
		if maximizing && v > best || !maximizing && v < best {
			best = v
		}
	}
	return best
}

func withMove(g *model.Grid, positions *[2]model.Position, p model.PlayerId, to model.Position, eval func() float64) float64 {
	prevOwner := g.OwnerOf(to)
	prevPos := positions[p]
	g.Owners[to.Row][to.Col] = p
	positions[p] = to
	v := eval()
	g.Owners[to.Row][to.Col] = prevOwner
	positions[p] = prevPos
	return v
}

// bestBySearch evaluates each candidate with the opponent replying first.
// Ties keep the earlier candidate.
func bestBySearch(g *model.Grid, positions [2]model.Position, p model.PlayerId, candidates []model.Position, depth int) model.Position {
	scratch := g.Clone()
	best := candidates[0]
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		v := withMove(scratch, &positions, p, c, func() float64 {
			return minimax(scratch, positions, p.Opponent(), p, depth-1)
		})
		if v > bestScore {
			best, bestScore = c, v
		}
	}
	return best
}
