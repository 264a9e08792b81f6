package model

import "time"

type Effect int

const (
	EffectShield Effect = iota
	EffectSpeedBoost
	EffectDoublePoints
	effectCount
)

// Effects lists the tracked buffs.
var Effects = [effectCount]Effect{EffectShield, EffectSpeedBoost, EffectDoublePoints}

func (e Effect) Name() string {
	switch e {
	case EffectShield:
		return "shield"
	case EffectSpeedBoost:
		return "speed_boost"
	case EffectDoublePoints:
		return "double_points"
	default:
		return "n/a"
	}
}

type timedEffect struct {
	active bool
	until  time.Time
}

// EffectTracker keeps per player buffs and freezes for one match.
type EffectTracker struct {
	effects     [2][effectCount]timedEffect
	freezeUntil [2]time.Time
}

func NewEffectTracker() *EffectTracker {
	return &EffectTracker{}
}

// Activate stacks additively: an unexpired effect is extended from its
// current expiry, otherwise it runs from now.
func (t *EffectTracker) Activate(p PlayerId, e Effect, d time.Duration, now time.Time) time.Time {
	te := &t.effects[p][e]
	te.until = extend(te.until, d, now)
	te.active = true
	return te.until
}

// Freeze applies to the victim with the same stacking as Activate.
func (t *EffectTracker) Freeze(victim PlayerId, d time.Duration, now time.Time) time.Time {
	t.freezeUntil[victim] = extend(t.freezeUntil[victim], d, now)
	return t.freezeUntil[victim]
}

func extend(until time.Time, d time.Duration, now time.Time) time.Time {
	if until.After(now) {
		return until.Add(d)
	}
	return now.Add(d)
}

// ExpireStale clears active flags whose expiry has been reached. Expiry
// timestamps are kept.
func (t *EffectTracker) ExpireStale(now time.Time) {
	for p := range t.effects {
		for e := range t.effects[p] {
			if !now.Before(t.effects[p][e].until) {
				t.effects[p][e].active = false
			}
		}
	}
}

func (t *EffectTracker) IsActive(p PlayerId, e Effect) bool {
	return t.effects[p][e].active
}

func (t *EffectTracker) Expiry(p PlayerId, e Effect) time.Time {
	return t.effects[p][e].until
}

func (t *EffectTracker) IsFrozen(p PlayerId, now time.Time) bool {
	return now.Before(t.freezeUntil[p])
}

func (t *EffectTracker) FrozenUntil(p PlayerId) time.Time {
	return t.freezeUntil[p]
}

type EffectTimer struct {
	Effect    Effect
	Remaining time.Duration
}

// Remaining lists active effects with time left at now.
func (t *EffectTracker) Remaining(p PlayerId, now time.Time) []EffectTimer {
	timers := make([]EffectTimer, 0, effectCount)
	for _, e := range Effects {
		te := t.effects[p][e]
		if te.active && te.until.After(now) {
			timers = append(timers, EffectTimer{Effect: e, Remaining: te.until.Sub(now)})
		}
	}
	return timers
}

// FreezeRemaining is zero when p is not frozen.
func (t *EffectTracker) FreezeRemaining(p PlayerId, now time.Time) time.Duration {
	if !t.IsFrozen(p, now) {
		return 0
	}
	return t.freezeUntil[p].Sub(now)
}
