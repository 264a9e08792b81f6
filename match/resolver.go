package match

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
)

// State is everything one match mutates.
type State struct {
	Grid      *model.Grid
	Effects   *model.EffectTracker
	Scores    [2]int
	Positions [2]model.Position
}

func NewState(size int) *State {
	grid, starts := model.NewMatchGrid(size)
	return &State{
		Grid:      grid,
		Effects:   model.NewEffectTracker(),
		Scores:    [2]int{1, 1},
		Positions: starts,
	}
}

type ClaimOutcome int

const (
	ClaimOwn ClaimOutcome = iota + 1
	ClaimTaken
	ClaimDenied
)

func (c ClaimOutcome) Name() string {
	switch c {
	case ClaimOwn:
		return "OWN"
	case ClaimTaken:
		return "TAKEN"
	case ClaimDenied:
		return "DENIED"
	default:
		return "N/A"
	}
}

// Step describes one resolved cell of a move.
type Step struct {
	Player     model.PlayerId
	Dest       model.Position
	Collected  model.PowerUpKind
	Claim      ClaimOutcome
	ScoreDelta [2]int
	// Extra holds cells written directly by Bonus or TerritoryBomb.
	Extra []model.Position
}

type Resolver struct {
	state *State
	log   *log.Entry
}

func NewResolver(s *State, logger *log.Entry) *Resolver {
	return &Resolver{state: s, log: logger}
}

// Apply resolves a move of p onto dest. dest must be in bounds.
func (r *Resolver) Apply(p model.PlayerId, dest model.Position, now time.Time) Step {
	s := r.state
	step := Step{Player: p, Dest: dest}
	before := s.Scores

	if kind := s.Grid.ConsumePowerUpAt(dest); kind != model.NoPowerUp {
		step.Collected = kind
		step.Extra = r.collect(p, kind, dest, now)
	}

	owner := s.Grid.OwnerOf(dest)
	switch {
	case owner == p:
		step.Claim = ClaimOwn
	case owner != model.Unowned && s.Effects.IsActive(owner, model.EffectShield):
		step.Claim = ClaimDenied
	default:
		step.Claim = ClaimTaken
		if s.Grid.ClaimCell(dest, p) && s.Scores[owner] > 0 {
			s.Scores[owner]--
		}
		if s.Effects.IsActive(p, model.EffectDoublePoints) {
			s.Scores[p] += 2
		} else {
			s.Scores[p]++
		}
	}

	s.Positions[p] = dest
	for i := range step.ScoreDelta {
		step.ScoreDelta[i] = s.Scores[i] - before[i]
	}
	return step
}

func (r *Resolver) collect(p model.PlayerId, kind model.PowerUpKind, dest model.Position, now time.Time) []model.Position {
	s := r.state
	logger := r.log.WithFields(log.Fields{"player": p, "powerup": kind})
	switch kind {
	case model.Freeze:
		until := s.Effects.Freeze(p.Opponent(), kind.Duration(), now)
		logger.Debugf("opponent frozen until +%v", until.Sub(now))
	case model.Bonus:
		s.Grid.ClaimCell(dest, p)
		extra := []model.Position{dest}
		if other, ok := s.Grid.FirstUnowned(dest); ok {
			s.Grid.ClaimCell(other, p)
			extra = append(extra, other)
		}
		logger.Debugf("bonus claimed %d cells", len(extra))
		return extra
	case model.Shield, model.SpeedBoost, model.DoublePoints:
		e, _ := kind.Effect()
		until := s.Effects.Activate(p, e, kind.Duration(), now)
		logger.Debugf("%s active until +%v", e.Name(), until.Sub(now))
	case model.TerritoryBomb:
		extra := make([]model.Position, 0, 8)
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				n := model.Position{Row: dest.Row + dr, Col: dest.Col + dc}
				if (dr == 0 && dc == 0) || !s.Grid.InBounds(n) {
					continue
				}
				s.Grid.ClaimCell(n, p)
				extra = append(extra, n)
			}
		}
		logger.Debugf("bomb claimed %d cells", len(extra))
		return extra
	default:
		logger.Warn("unknown power-up consumed")
	}
	return nil
}

// Walk moves p steps cells in direction d. The whole path is checked
// before any cell is resolved; an out of bounds path changes nothing.
func (r *Resolver) Walk(p model.PlayerId, d model.Direction, steps int, now time.Time) ([]Step, bool) {
	if d == model.NoDirection || steps < 1 {
		return nil, false
	}
	from := r.state.Positions[p]
	for i := 1; i <= steps; i++ {
		if !r.state.Grid.InBounds(from.Step(d, i)) {
			return nil, false
		}
	}
	resolved := make([]Step, 0, steps)
	for i := 1; i <= steps; i++ {
		resolved = append(resolved, r.Apply(p, from.Step(d, i), now))
	}
	return resolved, true
}
