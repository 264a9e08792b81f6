package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/zucenko/territory/match"
	"github.com/zucenko/territory/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	boardPixels  = 560
	sidebarWidth = 280
	screenWidth  = boardPixels + sidebarWidth
	screenHeight = boardPixels
	frameDt      = float32(1.0 / 60)
)

var (
	colorBackground = color.RGBA{30, 30, 36, 255}
	colorUnowned    = color.RGBA{70, 70, 78, 255}
)

type GameState int

const (
	IDLE GameState = iota + 1
	PLAYING
	GAME_OVER
)

func (s GameState) Name() string {
	switch s {
	case IDLE:
		return "IDLE"
	case PLAYING:
		return "PLAYING"
	case GAME_OVER:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// Token is a player marker tinted with the player's color.
type Token struct {
	image  *ebiten.Image
	scale  float64
	color  color.RGBA
	alpha  float64
	width  int
	height int
}

func (t *Token) Draw(screen *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(t.scale, t.scale)
	op.GeoM.Translate(x-t.scale*float64(t.width)/2, y-t.scale*float64(t.height)/2)
	r, g, b := rgb(t.color)
	op.ColorM.Scale(r, g, b, t.alpha)
	screen.DrawImage(t.image, op)
}

type Game struct {
	State    GameState
	Config   model.MatchConfig
	Match    *match.Match
	Snapshot model.Snapshot
	Result   model.Result
	Panel    *Nine
	Dot      *ebiten.Image
	Tweens   map[*gween.Tween]*Action
	Flashes  map[model.Position]float32

	strokes map[*Stroke]struct{}
	cell    int
	status  string
	now     func() time.Time
}

var Font, Small font.Face

func init() {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72
	Font = truetype.NewFace(tt, &truetype.Options{
		Size:    22,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	Small = truetype.NewFace(tt, &truetype.Options{
		Size:    14,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func newDotImage(side int) *ebiten.Image {
	src := image.NewRGBA(image.Rect(0, 0, side, side))
	c := float64(side) / 2
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if math.Hypot(float64(x)+.5-c, float64(y)+.5-c) <= c {
				src.Set(x, y, color.White)
			}
		}
	}
	img, _ := ebiten.NewImageFromImage(src, ebiten.FilterLinear)
	return img
}

func NewGame(cfg model.MatchConfig) *Game {
	panel := NewNine(newFrameImage(48, 12), 16)
	panel.SetPosition(boardPixels+8, 8)
	panel.SetSize(sidebarWidth-16, screenHeight-16)
	return &Game{
		State:   IDLE,
		Config:  cfg,
		Panel:   panel,
		Dot:     newDotImage(64),
		Tweens:  make(map[*gween.Tween]*Action),
		Flashes: make(map[model.Position]float32),
		strokes: map[*Stroke]struct{}{},
		cell:    boardPixels / cfg.BoardSize,
		status:  "Enter or click to start",
		now:     time.Now,
	}
}

func (g *Game) start() {
	m, err := match.NewMatch(g.Config, g.now())
	if err != nil {
		g.status = err.Error()
		return
	}
	g.Match = m
	g.Snapshot = m.Snapshot(g.now())
	g.Tweens = make(map[*gween.Tween]*Action)
	g.Flashes = make(map[model.Position]float32)
	g.State = PLAYING
}

func (g *Game) tick() {
	snap, err := g.safeTick(g.now())
	if err != nil {
		log.Errorf("match abandoned: %v", err)
		g.Match = nil
		g.State = IDLE
		g.status = "internal error, match abandoned"
		return
	}
	g.Snapshot = snap
	g.animate(g.Match.Steps())
	if res, ended := g.Match.Result(); ended {
		g.Result = res
		g.State = GAME_OVER
	}
}

func (g *Game) safeTick(now time.Time) (snap model.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
	}()
	return g.Match.Tick(now), nil
}

// keyDirections is scanned in order; with several keys held the last held
// entry wins.
var keyDirections = []struct {
	key ebiten.Key
	dir model.Direction
}{
	{ebiten.KeyUp, model.Up},
	{ebiten.KeyW, model.Up},
	{ebiten.KeyDown, model.Down},
	{ebiten.KeyS, model.Down},
	{ebiten.KeyLeft, model.Left},
	{ebiten.KeyA, model.Left},
	{ebiten.KeyRight, model.Right},
	{ebiten.KeyD, model.Right},
}

func (g *Game) input() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.Match.Stop()
		return
	}
	if !g.Config.Mode.Human(model.Player0) {
		return
	}
	// held keys keep re-submitting; the match applies them on its cadence
	for _, kd := range keyDirections {
		if ebiten.IsKeyPressed(kd.key) {
			g.Match.Submit(model.Player0, kd.dir)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.strokes[NewStroke(&MouseStrokeSource{})] = struct{}{}
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		g.strokes[NewStroke(&TouchStrokeSource{id})] = struct{}{}
	}
	for s := range g.strokes {
		s.Update()
		if !s.IsReleased() {
			continue
		}
		delete(g.strokes, s)
		if d, ok := s.Swipe(g.cell / 2); ok {
			g.Match.Submit(model.Player0, d)
			continue
		}
		if pos, ok := g.cellAt(s.initX, s.initY); ok {
			g.Match.SubmitTarget(model.Player0, pos)
		}
	}
}

func (g *Game) cellAt(x, y int) (model.Position, bool) {
	pos := model.Position{Row: y / g.cell, Col: x / g.cell}
	if x < 0 || y < 0 || pos.Row >= g.Config.BoardSize || pos.Col >= g.Config.BoardSize {
		return pos, false
	}
	return pos, true
}

func (g *Game) update(screen *ebiten.Image) error {
	g.updateTweens(frameDt)

	switch g.State {
	case IDLE:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.start()
		}
	case PLAYING:
		g.input()
		g.tick()
	case GAME_OVER:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.State = IDLE
			g.status = "Enter or click to start"
		}
	}

	if ebiten.IsDrawingSkipped() {
		return nil
	}

	if e := screen.Fill(colorBackground); e != nil {
		log.Printf("%v", e)
	}
	if g.Match != nil {
		g.drawBoard(screen)
	}
	g.drawSidebar(screen)
	ebitenutil.DebugPrintAt(screen, g.State.Name(), boardPixels+20, screenHeight-24)
	return nil
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	snap := g.Snapshot
	cell := float64(g.cell)
	for r, row := range snap.Owners {
		for c, owner := range row {
			clr := colorUnowned
			if owner.Valid() {
				clr = mix(snap.Players[owner].Color, colorBackground, .7)
			}
			if f, ok := g.Flashes[model.Position{Row: r, Col: c}]; ok {
				clr = mix(color.RGBA{255, 255, 255, 255}, clr, float64(f))
			}
			ebitenutil.DrawRect(screen, float64(c)*cell+1, float64(r)*cell+1, cell-2, cell-2, clr)

			kind := snap.PowerUps[r][c]
			if spec, ok := kind.Spec(); ok {
				ebitenutil.DrawRect(screen, float64(c)*cell+cell/4, float64(r)*cell+cell/4, cell/2, cell/2, spec.Color)
				ebitenutil.DebugPrintAt(screen, spec.Name[:1], c*g.cell+g.cell/2-3, r*g.cell+g.cell/2-8)
			}
		}
	}

	w, h := g.Dot.Size()
	for _, p := range model.Players {
		view := snap.Players[p]
		token := Token{
			image: g.Dot, width: w, height: h,
			scale: cell * .6 / float64(w),
			color: view.Color,
			alpha: 1,
		}
		if view.Frozen > 0 {
			token.alpha = .35
		}
		token.Draw(screen, float64(view.Position.Col)*cell+cell/2, float64(view.Position.Row)*cell+cell/2)
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image) {
	g.Panel.Draw(screen)
	x := boardPixels + 24
	y := 44

	switch g.State {
	case IDLE:
		text.Draw(screen, "Territory", Font, x, y, color.White)
		y += 30
		for _, line := range []string{
			fmt.Sprintf("%dx%d  %ds", g.Config.BoardSize, g.Config.BoardSize, g.Config.MatchSeconds),
			g.Config.Mode.Name() + "  " + g.Config.Difficulty.Name(),
			g.status,
		} {
			text.Draw(screen, line, Small, x, y, color.White)
			y += 20
		}
	default:
		secs := int(math.Ceil(g.Snapshot.TimeLeft.Seconds()))
		text.Draw(screen, fmt.Sprintf("Time %ds", secs), Font, x, y, color.White)
		y += 34
		for _, p := range model.Players {
			view := g.Snapshot.Players[p]
			text.Draw(screen, fmt.Sprintf("%s  %d", view.Name, view.Score), Font, x, y, view.Color)
			y += 22
			for _, e := range view.Effects {
				text.Draw(screen, fmt.Sprintf("%s %.1fs", e.Effect.Name(), e.Remaining.Seconds()), Small, x+8, y, color.White)
				y += 18
			}
			if view.Frozen > 0 {
				text.Draw(screen, fmt.Sprintf("Frozen %.1fs", view.Frozen.Seconds()), Small, x+8, y, color.White)
				y += 18
			}
			y += 10
		}
		if g.State == GAME_OVER {
			text.Draw(screen, g.winnerLine(), Font, x, y, color.White)
			y += 22
			text.Draw(screen, "Enter for a new match", Small, x, y, color.White)
		}
	}

	y = screenHeight - 160
	for _, spec := range model.Catalog() {
		ebitenutil.DrawRect(screen, float64(x), float64(y-10), 10, 10, spec.Color)
		text.Draw(screen, spec.Name+": "+spec.Description, Small, x+16, y, color.White)
		y += 20
	}
}

func (g *Game) winnerLine() string {
	if g.Result.Tie() {
		return "Tie!"
	}
	return g.Snapshot.Players[g.Result.Winner].Name + " wins!"
}

func rgb(c color.RGBA) (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// mix blends a over b with weight w in [0,1].
func mix(a, b color.RGBA, w float64) color.RGBA {
	blend := func(x, y uint8) uint8 {
		return uint8(float64(x)*w + float64(y)*(1-w))
	}
	return color.RGBA{blend(a.R, b.R), blend(a.G, b.G), blend(a.B, b.B), 255}
}
