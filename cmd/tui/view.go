package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/zucenko/territory/model"
)

const (
	boardX = 1
	boardY = 1
	cellW  = 2
)

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleUnowned = tcell.StyleDefault.Background(tcell.NewRGBColor(60, 60, 66))
)

// View is what the terminal shows, rebuilt from server messages.
type View struct {
	Setup    *model.Setup
	Snapshot *model.Snapshot
	Result   *model.Result
	Errors   []string
	Closed   bool
}

func (v *View) Apply(sm model.ServerMessage) {
	for i := range sm.Setup {
		v.Setup = &sm.Setup[i]
	}
	for i := range sm.Snapshots {
		v.Snapshot = &sm.Snapshots[i]
	}
	for i := range sm.Results {
		v.Result = &sm.Results[i]
	}
	v.Errors = append(v.Errors, sm.Errors...)
}

func (v *View) Playing() bool {
	return !v.Closed && v.Setup != nil && v.Result == nil
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *View) Draw(s tcell.Screen) {
	s.Clear()
	y := boardY
	x := boardX
	if snap := v.Snapshot; snap != nil {
		x = v.drawBoard(s, snap) + 3
		y = v.drawStatus(s, x, snap)
	} else if v.Setup == nil && !v.Closed {
		drawText(s, x, y, styleText, "waiting for the server...")
		y += 2
	}
	for _, e := range v.Errors {
		drawText(s, x, y, styleError, e)
		y++
	}
	if v.Closed {
		drawText(s, x, y+1, styleText, "connection closed, q to exit")
	}
	s.Show()
}

// drawBoard returns the first column right of the board.
func (v *View) drawBoard(s tcell.Screen, snap *model.Snapshot) int {
	right := boardX
	for r, row := range snap.Owners {
		for c, owner := range row {
			style := styleUnowned
			if owner.Valid() {
				style = tcell.StyleDefault.Background(rgb(snap.Players[owner].Color))
			}
			glyph := [cellW]rune{' ', ' '}
			if spec, ok := snap.PowerUps[r][c].Spec(); ok {
				glyph[0] = []rune(spec.Name)[0]
				style = style.Foreground(rgb(spec.Color)).Bold(true)
			}
			x := boardX + c*cellW
			for i, g := range glyph {
				s.SetContent(x+i, boardY+r, g, nil, style)
			}
			if x+cellW > right {
				right = x + cellW
			}
		}
	}
	for _, p := range model.Players {
		view := snap.Players[p]
		marker := rune('1' + int(p))
		if view.Frozen > 0 {
			marker = '*'
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)
		s.SetContent(boardX+view.Position.Col*cellW, boardY+view.Position.Row, marker, nil, style)
		s.SetContent(boardX+view.Position.Col*cellW+1, boardY+view.Position.Row, ' ', nil, style)
	}
	return right
}

// drawStatus returns the next free line.
func (v *View) drawStatus(s tcell.Screen, x int, snap *model.Snapshot) int {
	y := boardY
	secs := int(math.Ceil(snap.TimeLeft.Seconds()))
	drawText(s, x, y, styleText.Bold(true), fmt.Sprintf("Time %ds", secs))
	y += 2
	for _, p := range model.Players {
		view := snap.Players[p]
		drawText(s, x, y, tcell.StyleDefault.Foreground(rgb(view.Color)).Bold(true),
			fmt.Sprintf("%c %s  %d", '1'+rune(p), view.Name, view.Score))
		y++
		for _, e := range view.Effects {
			drawText(s, x+2, y, styleText, fmt.Sprintf("%s %.1fs", e.Effect.Name(), e.Remaining.Seconds()))
			y++
		}
		if view.Frozen > 0 {
			drawText(s, x+2, y, styleText, fmt.Sprintf("Frozen %.1fs", view.Frozen.Seconds()))
			y++
		}
		y++
	}
	if res := v.Result; res != nil {
		line := "Tie!"
		if !res.Tie() {
			line = snap.Players[res.Winner].Name + " wins!"
		}
		drawText(s, x, y, styleText.Bold(true), line)
		y += 2
	} else {
		drawText(s, x, y, styleText, "arrows/wasd move, q quit")
		y += 2
	}
	return y
}
