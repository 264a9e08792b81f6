package match

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
)

const (
	MoveDelay        = 500 * time.Millisecond
	SpeedBoostFactor = 7
	SpeedBoostSteps  = 2
	SpawnInterval    = 5 * time.Second
)

type intent struct {
	dir model.Direction
	// steps 0 walks as far as the current speed allows
	steps int
}

// Match runs one game from configuration to result. It is driven by Tick
// from a single goroutine.
type Match struct {
	ID     string
	Config model.MatchConfig

	state    *State
	resolver *Resolver
	brain    *Brain
	spawner  *model.Spawner

	start     time.Time
	lastSpawn time.Time
	lastMove  [2]time.Time
	pending   [2]intent

	phase    model.Phase
	timeLeft time.Duration
	result   model.Result
	steps    []Step
	log      *log.Entry
}

func NewMatch(cfg model.MatchConfig, now time.Time) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	id := uuid.New().String()
	logger := log.WithFields(log.Fields{"match": id})

	state := NewState(cfg.BoardSize)
	m := &Match{
		ID:        id,
		Config:    cfg,
		state:     state,
		resolver:  NewResolver(state, logger),
		brain:     NewBrain(rnd),
		spawner:   model.NewSpawner(rnd, nil),
		start:     now,
		lastSpawn: now,
		phase:     model.Running,
		timeLeft:  cfg.Duration(),
		log:       logger,
	}
	logger.WithFields(log.Fields{
		"size":       cfg.BoardSize,
		"seconds":    cfg.MatchSeconds,
		"difficulty": cfg.Difficulty.Name(),
		"mode":       cfg.Mode.Name(),
	}).Info("match started")
	return m, nil
}

// Submit queues a directional move for a human player. The latest intent
// wins and is consumed by the next tick where the player may move.
func (m *Match) Submit(p model.PlayerId, d model.Direction) {
	if m.phase != model.Running || !m.Config.Mode.Human(p) {
		return
	}
	m.pending[p] = intent{dir: d}
}

// SubmitTarget queues a move towards dest. Targets off the player's row
// and column or further than a boosted walk are refused.
func (m *Match) SubmitTarget(p model.PlayerId, dest model.Position) bool {
	if m.phase != model.Running || !m.Config.Mode.Human(p) {
		return false
	}
	d, steps, ok := model.DirectionTo(m.state.Positions[p], dest)
	if !ok || steps > SpeedBoostSteps {
		return false
	}
	m.pending[p] = intent{dir: d, steps: steps}
	return true
}

func (m *Match) Tick(now time.Time) model.Snapshot {
	if m.phase == model.Ended {
		return m.Snapshot(now)
	}
	m.steps = m.steps[:0]
	m.timeLeft = m.remaining(now)

	if now.Sub(m.lastSpawn) >= SpawnInterval {
		if pos, kind, ok := m.spawner.Spawn(m.state.Grid); ok {
			m.log.WithFields(log.Fields{"row": pos.Row, "col": pos.Col}).Debugf("spawned %s", kind)
		}
		m.lastSpawn = now
	}

	m.state.Effects.ExpireStale(now)
	for _, p := range model.Players {
		m.advance(p, now)
	}

	switch {
	case m.timeLeft <= 0:
		m.end("time up")
	case m.state.Grid.IsFull():
		m.end("board full")
	}
	return m.Snapshot(now)
}

func (m *Match) advance(p model.PlayerId, now time.Time) {
	effects := m.state.Effects
	if effects.IsFrozen(p, now) {
		m.pending[p] = intent{}
		return
	}
	if now.Sub(m.lastMove[p]) < m.MoveDelay(p) {
		return
	}

	if m.Config.Mode.Human(p) {
		in := m.pending[p]
		if in.dir == model.NoDirection {
			return
		}
		m.pending[p] = intent{}
		allowed := 1
		if effects.IsActive(p, model.EffectSpeedBoost) {
			allowed = SpeedBoostSteps
		}
		steps := in.steps
		if steps == 0 {
			steps = allowed
		}
		if steps > allowed {
			return
		}
		if resolved, ok := m.resolver.Walk(p, in.dir, steps, now); ok {
			m.steps = append(m.steps, resolved...)
			m.lastMove[p] = now
		}
		return
	}

	dest := m.brain.Decide(m.state.Grid, m.state.Positions, p, m.Config.Difficulty)
	if !m.state.Grid.InBounds(dest) {
		return
	}
	m.steps = append(m.steps, m.resolver.Apply(p, dest, now))
	m.lastMove[p] = now
}

// MoveDelay is the cadence for p given its current effects.
func (m *Match) MoveDelay(p model.PlayerId) time.Duration {
	if m.state.Effects.IsActive(p, model.EffectSpeedBoost) {
		return MoveDelay / SpeedBoostFactor
	}
	return MoveDelay
}

func (m *Match) remaining(now time.Time) time.Duration {
	left := m.Config.Duration() - now.Sub(m.start)
	if left < 0 {
		return 0
	}
	return left
}

// Stop ends a running match early.
func (m *Match) Stop() {
	if m.phase == model.Running {
		m.end("stopped")
	}
}

func (m *Match) end(reason string) {
	m.phase = model.Ended
	m.result = model.NewResult(m.state.Grid.Tally())
	m.state.Scores = m.result.Scores
	m.log.WithFields(log.Fields{
		"reason": reason,
		"score0": m.result.Scores[0],
		"score1": m.result.Scores[1],
		"winner": m.result.Winner,
	}).Info("match ended")
}

func (m *Match) Ended() bool {
	return m.phase == model.Ended
}

// Result is valid once the match has ended.
func (m *Match) Result() (model.Result, bool) {
	return m.result, m.phase == model.Ended
}

// Steps lists the cells resolved during the last tick.
func (m *Match) Steps() []Step {
	return m.steps
}

func (m *Match) Snapshot(now time.Time) model.Snapshot {
	g := m.state.Grid.Clone()
	snap := model.Snapshot{
		Phase:    m.phase,
		TimeLeft: m.timeLeft,
		Owners:   g.Owners,
		PowerUps: g.PowerUps,
	}
	for _, p := range model.Players {
		snap.Players[p] = model.PlayerView{
			Name:     m.Config.Names[p],
			Color:    m.Config.Color(p),
			Human:    m.Config.Mode.Human(p),
			Position: m.state.Positions[p],
			Score:    m.state.Scores[p],
			Effects:  m.state.Effects.Remaining(p, now),
			Frozen:   m.state.Effects.FreezeRemaining(p, now),
		}
	}
	return snap
}

func (m *Match) Setup() model.Setup {
	human := model.Unowned
	if m.Config.Mode == model.HumanVsAI {
		human = model.Player0
	}
	return model.Setup{
		MatchID: m.ID,
		Rows:    m.state.Grid.Rows,
		Cols:    m.state.Grid.Cols,
		Config:  m.Config,
		Human:   human,
	}
}
