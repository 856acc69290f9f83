// Package overlay draws face highlights onto frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/andresmejia3/facewatch/internal/types"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	thickness   = 2
	labelOffset = 5
)

var (
	boxColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	labelColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Renderer draws in place: the frame passed in is the frame returned.
// Drawing the same box twice draws it twice; annotation is not idempotent.
type Renderer struct {
	// Labels toggles the corner coordinate text.
	Labels bool
}

func NewRenderer() *Renderer {
	return &Renderer{Labels: true}
}

// Annotate outlines box and labels its corners. A nil box leaves the frame untouched.
func (r *Renderer) Annotate(frame *image.RGBA, box *types.BoundingBox) *image.RGBA {
	if frame == nil || box == nil {
		return frame
	}
	drawRect(frame, box.X, box.Y, box.X+box.W, box.Y+box.H, boxColor, thickness)
	if r.Labels {
		for _, c := range box.Corners() {
			drawLabel(frame, fmt.Sprintf("(%d, %d)", c.X, c.Y), c.X, c.Y-labelOffset)
		}
	}
	return frame
}

// Circles draws a circle inscribed in each box.
func (r *Renderer) Circles(frame *image.RGBA, boxes []types.BoundingBox) *image.RGBA {
	for _, b := range boxes {
		cx, cy := b.X+b.W/2, b.Y+b.H/2
		drawCircle(frame, cx, cy, b.W/2, boxColor, thickness)
	}
	return frame
}

// drawRect draws a rectangle with the stroke growing inwards from the edges.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	b := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(b) {
			img.SetRGBA(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			set(x, y1+t)
			set(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			set(x1+t, y)
			set(x2-t, y)
		}
	}
}

func drawCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA, thickness int) {
	b := img.Bounds()
	outer := float64(radius)
	inner := outer - float64(thickness)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if d > inner && d <= outer && (image.Point{X: x, Y: y}).In(b) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLabel writes text with its baseline at (x, y).
func drawLabel(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
