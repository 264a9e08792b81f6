package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten"
)

// Nine draws a nine-slice frame: corners keep their size, edges stretch
// along one axis and the middle along both.
type Nine struct {
	image         *ebiten.Image
	alpha         float64
	R, G, B       float64
	Scale         float64
	cuts          [4]int // source x/y of the slice lines, square source
	x, y          float64
	width, height float64
}

// newFrameImage renders a rounded panel; the source is square so one set of
// cuts serves both axes.
func newFrameImage(side, radius int) *ebiten.Image {
	src := image.NewRGBA(image.Rect(0, 0, side, side))
	r2 := radius * radius
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			dx, dy := 0, 0
			if x < radius {
				dx = radius - x
			} else if x >= side-radius {
				dx = x - (side - radius - 1)
			}
			if y < radius {
				dy = radius - y
			} else if y >= side-radius {
				dy = y - (side - radius - 1)
			}
			d := dx*dx + dy*dy
			switch {
			case d > r2:
			case d > (radius-2)*(radius-2):
				src.Set(x, y, color.White)
			default:
				src.Set(x, y, color.RGBA{40, 40, 48, 230})
			}
		}
	}
	img, _ := ebiten.NewImageFromImage(src, ebiten.FilterDefault)
	return img
}

func NewNine(img *ebiten.Image, corner int) *Nine {
	w, _ := img.Size()
	return &Nine{
		image: img,
		alpha: 1,
		R:     1, G: 1, B: 1, Scale: 1,
		cuts:  [4]int{0, corner, w - corner, w},
	}
}

func (n *Nine) SetPosition(x, y int) {
	n.x = float64(x)
	n.y = float64(y)
}

func (n *Nine) SetSize(width, height int) {
	n.width = float64(width)
	n.height = float64(height)
}

// spans maps the three source bands of one axis onto target offsets and
// scales for a target length.
func (n *Nine) spans(length float64) (offsets, scales [3]float64) {
	head := n.Scale * float64(n.cuts[1]-n.cuts[0])
	tail := n.Scale * float64(n.cuts[3]-n.cuts[2])
	inner := length - head - tail
	if inner < 0 {
		inner = 0
	}
	offsets = [3]float64{0, head, head + inner}
	scales = [3]float64{n.Scale, inner / float64(n.cuts[2]-n.cuts[1]), n.Scale}
	return
}

func (n *Nine) Draw(screen *ebiten.Image) {
	xOff, xScale := n.spans(n.width)
	yOff, yScale := n.spans(n.height)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(n.cuts[col], n.cuts[row], n.cuts[col+1], n.cuts[row+1])
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(xScale[col], yScale[row])
			op.GeoM.Translate(n.x+xOff[col], n.y+yOff[row])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			screen.DrawImage(n.image.SubImage(src).(*ebiten.Image), op)
		}
	}
}
