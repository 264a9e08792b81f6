package match

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zucenko/territory/model"
)

func newTestBrain(seed int64) *Brain {
	return NewBrain(rand.New(rand.NewSource(seed)))
}

func TestDecidePowerUpPreemptsAtEveryDifficulty(t *testing.T) {
	for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard, model.Expert} {
		g, starts := model.NewMatchGrid(8)
		positions := [2]model.Position{pos(4, 4), starts[model.Player1]}
		g.PlacePowerUp(pos(4, 5), model.Bonus)

		for i := 0; i < 20; i++ {
			assert.Equal(t, pos(4, 5), newTestBrain(int64(i)).Decide(g, positions, model.Player0, d), d.Name())
		}
	}
}

func TestDecideStallsWithoutNeighbours(t *testing.T) {
	g := model.NewGrid(1, 1)
	positions := [2]model.Position{pos(0, 0), pos(0, 0)}
	assert.Equal(t, pos(0, 0), newTestBrain(1).Decide(g, positions, model.Player0, model.Hard))
}

func TestDecideEasyIsUniform(t *testing.T) {
	g, starts := model.NewMatchGrid(8)
	positions := [2]model.Position{pos(4, 4), starts[model.Player1]}
	b := newTestBrain(42)

	const trials = 8000
	counts := map[model.Position]int{}
	for i := 0; i < trials; i++ {
		counts[b.Decide(g, positions, model.Player0, model.Easy)]++
	}
	assert.Len(t, counts, 4)
	for _, n := range g.Neighbours(pos(4, 4)) {
		assert.InDelta(t, trials/4, counts[n], trials/4*0.1, "%v", n)
	}
}

func TestDecideHardPrefersUnclaimedCells(t *testing.T) {
	g, starts := model.NewMatchGrid(8)
	g.ClaimCell(pos(3, 4), model.Player0)
	g.ClaimCell(pos(5, 4), model.Player0)
	positions := [2]model.Position{pos(4, 4), starts[model.Player1]}
	b := newTestBrain(3)

	const trials = 4000
	good := 0
	for i := 0; i < trials; i++ {
		next := b.Decide(g, positions, model.Player0, model.Hard)
		if g.OwnerOf(next) != model.Player0 {
			good++
		}
	}
	// 0.9 smart picks plus half of the 0.1 random ones
	assert.InDelta(t, 0.95, float64(good)/trials, 0.02)
}

func TestDecideMediumFallsBackWhenEverythingIsOwned(t *testing.T) {
	g, starts := model.NewMatchGrid(8)
	for _, n := range g.Neighbours(pos(4, 4)) {
		g.ClaimCell(n, model.Player0)
	}
	positions := [2]model.Position{pos(4, 4), starts[model.Player1]}
	b := newTestBrain(9)

	seen := map[model.Position]bool{}
	for i := 0; i < 200; i++ {
		seen[b.Decide(g, positions, model.Player0, model.Medium)] = true
	}
	assert.Len(t, seen, 4)
}

func TestDecideExpertStealsWithSearch(t *testing.T) {
	g := model.NewGrid(3, 3)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			g.ClaimCell(pos(r, c), model.Player0)
		}
	}
	g.ClaimCell(pos(0, 1), model.Player1)
	positions := [2]model.Position{pos(1, 1), pos(2, 2)}

	b := newTestBrain(1)
	assert.Equal(t, pos(0, 1), b.Decide(g, positions, model.Player0, model.Expert))
	assert.Equal(t, model.Player1, g.OwnerOf(pos(0, 1)), "search leaves the board untouched")
	assert.Equal(t, pos(1, 1), positions[model.Player0])
}

func TestHeuristic(t *testing.T) {
	g, _ := model.NewMatchGrid(8)
	positions := [2]model.Position{pos(4, 4), pos(0, 0)}
	// 1 owned + 0.2*4 mobility - 0 distance
	assert.InDelta(t, 1.8, heuristic(g, positions, model.Player0), 1e-9)
	// 1 owned + 0.2*2 mobility - 0.05*8 distance
	assert.InDelta(t, 1.0, heuristic(g, positions, model.Player1), 1e-9)
}
