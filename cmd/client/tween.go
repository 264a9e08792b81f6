package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/territory/match"
	"github.com/zucenko/territory/model"
)

const flashSeconds = 0.45

type Action struct {
	nexts    []func(g *Game)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	a.onFinish = append(a.onFinish, f)
}

func (a *Action) next(t *gween.Tween) *Action {
	action := &Action{}
	a.nexts = append(a.nexts,
		func(g *Game) {
			g.Tweens[t] = action
		})
	return action
}

// flash pulses a freshly claimed cell; a second tween settles it back.
func (g *Game) flash(pos model.Position, peak float32) {
	up := gween.New(0, peak, flashSeconds/3, ease.OutQuad)
	a := &Action{onChange: func(v float32) { g.Flashes[pos] = v }}
	down := a.next(gween.New(peak, 0, flashSeconds*2/3, ease.InQuad))
	down.onChange = func(v float32) { g.Flashes[pos] = v }
	down.addOnFinish(func() { delete(g.Flashes, pos) })
	g.Tweens[up] = a
}

// animate queues flashes for every cell that changed hands in the last tick.
func (g *Game) animate(steps []match.Step) {
	for _, s := range steps {
		if s.Claim == match.ClaimTaken {
			g.flash(s.Dest, 0.8)
		}
		for _, p := range s.Extra {
			g.flash(p, 0.6)
		}
	}
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			for _, next := range a.nexts {
				next(g)
			}
			delete(g.Tweens, t)
		}
	}
}
