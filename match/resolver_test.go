package match

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/territory/model"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func testLogger() *log.Entry {
	return log.WithField("test", true)
}

func newTestResolver(size int) (*State, *Resolver) {
	s := NewState(size)
	return s, NewResolver(s, testLogger())
}

func pos(r, c int) model.Position {
	return model.Position{Row: r, Col: c}
}

func TestApplyClaimsUnownedCell(t *testing.T) {
	s, r := newTestResolver(8)
	step := r.Apply(model.Player0, pos(0, 1), at(0))

	assert.Equal(t, ClaimTaken, step.Claim)
	assert.Equal(t, model.Player0, s.Grid.OwnerOf(pos(0, 1)))
	assert.Equal(t, [2]int{2, 1}, s.Scores)
	assert.Equal(t, [2]int{1, 0}, step.ScoreDelta)
	assert.Equal(t, pos(0, 1), s.Positions[model.Player0])
}

func TestApplyOwnCellKeepsScores(t *testing.T) {
	s, r := newTestResolver(8)
	r.Apply(model.Player0, pos(0, 1), at(0))
	step := r.Apply(model.Player0, pos(0, 0), at(10))

	assert.Equal(t, ClaimOwn, step.Claim)
	assert.Equal(t, [2]int{2, 1}, s.Scores)
	assert.Equal(t, pos(0, 0), s.Positions[model.Player0])
}

func TestApplyStealsFromOpponent(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.ClaimCell(pos(3, 3), model.Player1)
	s.Scores[model.Player1] = 2

	step := r.Apply(model.Player0, pos(3, 3), at(0))
	assert.Equal(t, ClaimTaken, step.Claim)
	assert.Equal(t, [2]int{2, 1}, s.Scores)
	assert.Equal(t, [2]int{1, -1}, step.ScoreDelta)
}

func TestApplyNeverDrivesScoreNegative(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.ClaimCell(pos(3, 3), model.Player1)
	s.Scores[model.Player1] = 0

	r.Apply(model.Player0, pos(3, 3), at(0))
	assert.Equal(t, 0, s.Scores[model.Player1])
	assert.Equal(t, model.Player0, s.Grid.OwnerOf(pos(3, 3)), "ownership still transfers")
}

func TestApplyDeniedByShield(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.ClaimCell(pos(3, 3), model.Player1)
	s.Effects.Activate(model.Player1, model.EffectShield, 5*time.Second, at(0))
	before := s.Scores

	step := r.Apply(model.Player0, pos(3, 3), at(100))
	assert.Equal(t, ClaimDenied, step.Claim)
	assert.Equal(t, model.Player1, s.Grid.OwnerOf(pos(3, 3)))
	assert.Equal(t, before, s.Scores)
	assert.Equal(t, pos(3, 3), s.Positions[model.Player0], "mover still occupies the cell")
}

func TestApplyOwnShieldDoesNotBlockOthersCells(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.ClaimCell(pos(3, 3), model.Player1)
	s.Effects.Activate(model.Player0, model.EffectShield, 5*time.Second, at(0))

	step := r.Apply(model.Player0, pos(3, 3), at(100))
	assert.Equal(t, ClaimTaken, step.Claim)
}

func TestApplyDoublePoints(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.PlacePowerUp(pos(0, 1), model.DoublePoints)

	step := r.Apply(model.Player0, pos(0, 1), at(0))
	assert.Equal(t, model.DoublePoints, step.Collected)
	assert.Equal(t, 3, s.Scores[model.Player0], "the collecting move already scores double")
	assert.Equal(t, model.NoPowerUp, s.Grid.PowerUpAt(pos(0, 1)))

	r.Apply(model.Player0, pos(0, 2), at(100))
	assert.Equal(t, 5, s.Scores[model.Player0])
}

func TestFreezePickupFreezesOpponent(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.PlacePowerUp(pos(0, 1), model.Freeze)

	r.Apply(model.Player0, pos(0, 1), at(1000))
	assert.Equal(t, at(6000), s.Effects.FrozenUntil(model.Player1))
	assert.False(t, s.Effects.IsFrozen(model.Player0, at(1000)))

	s.Grid.PlacePowerUp(pos(0, 2), model.Freeze)
	r.Apply(model.Player0, pos(0, 2), at(2000))
	assert.Equal(t, at(11000), s.Effects.FrozenUntil(model.Player1))
}

func TestBonusClaimsDestinationAndFirstUnowned(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.PlacePowerUp(pos(2, 2), model.Bonus)

	step := r.Apply(model.Player0, pos(2, 2), at(0))
	assert.Equal(t, model.Player0, s.Grid.OwnerOf(pos(2, 2)))
	assert.Equal(t, model.Player0, s.Grid.OwnerOf(pos(0, 1)), "row-major first unowned")
	assert.Equal(t, []model.Position{pos(2, 2), pos(0, 1)}, step.Extra)
	assert.Equal(t, ClaimOwn, step.Claim)
	assert.Equal(t, [2]int{1, 1}, s.Scores, "bonus writes carry no score")
	assert.Equal(t, 3, s.Grid.Tally()[model.Player0])
}

func TestBonusWithoutOtherUnownedCell(t *testing.T) {
	s, r := newTestResolver(8)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if s.Grid.OwnerOf(pos(row, col)) == model.Unowned {
				s.Grid.ClaimCell(pos(row, col), model.Player1)
			}
		}
	}
	s.Grid.Owners[4][4] = model.Unowned
	s.Grid.PlacePowerUp(pos(4, 4), model.Bonus)
	tally := s.Grid.Tally()

	step := r.Apply(model.Player0, pos(4, 4), at(0))
	assert.Equal(t, []model.Position{pos(4, 4)}, step.Extra)
	assert.Equal(t, tally[model.Player0]+1, s.Grid.Tally()[model.Player0])
	assert.Equal(t, tally[model.Player1], s.Grid.Tally()[model.Player1])
	assert.True(t, s.Grid.IsFull())
}

func TestTerritoryBombIgnoresShield(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.ClaimCell(pos(2, 3), model.Player1)
	s.Effects.Activate(model.Player1, model.EffectShield, 5*time.Second, at(0))
	s.Grid.PlacePowerUp(pos(3, 3), model.TerritoryBomb)

	step := r.Apply(model.Player0, pos(3, 3), at(100))
	require.Len(t, step.Extra, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			assert.Equal(t, model.Player0, s.Grid.OwnerOf(pos(3+dr, 3+dc)))
		}
	}
	assert.Equal(t, ClaimTaken, step.Claim)
	assert.Equal(t, 2, s.Scores[model.Player0], "only the base claim scores")
}

func TestTerritoryBombAtEdgeStaysInBounds(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.PlacePowerUp(pos(0, 3), model.TerritoryBomb)

	step := r.Apply(model.Player0, pos(0, 3), at(0))
	assert.Len(t, step.Extra, 5)
}

func TestWalkResolvesEachCellInOrder(t *testing.T) {
	s, r := newTestResolver(8)
	s.Grid.PlacePowerUp(pos(0, 1), model.DoublePoints)

	steps, ok := r.Walk(model.Player0, model.Right, 2, at(0))
	require.True(t, ok)
	require.Len(t, steps, 2)
	assert.Equal(t, model.DoublePoints, steps[0].Collected)
	assert.Equal(t, pos(0, 2), steps[1].Dest)
	assert.Equal(t, 5, s.Scores[model.Player0], "second cell scores double")
	assert.Equal(t, pos(0, 2), s.Positions[model.Player0])
}

func TestWalkRejectsPartialPath(t *testing.T) {
	s, r := newTestResolver(8)
	s.Positions[model.Player0] = pos(0, 6)
	s.Grid.PlacePowerUp(pos(0, 7), model.Shield)

	steps, ok := r.Walk(model.Player0, model.Right, 2, at(0))
	assert.False(t, ok)
	assert.Nil(t, steps)
	assert.Equal(t, pos(0, 6), s.Positions[model.Player0])
	assert.Equal(t, model.Shield, s.Grid.PowerUpAt(pos(0, 7)))
	assert.Equal(t, model.Unowned, s.Grid.OwnerOf(pos(0, 7)))

	_, ok = r.Walk(model.Player0, model.Up, 1, at(0))
	assert.False(t, ok)
	_, ok = r.Walk(model.Player0, model.NoDirection, 1, at(0))
	assert.False(t, ok)
}
