package overlay

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/andresmejia3/facewatch/internal/types"
)

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 40, 40, 40, 255
	}
	return img
}

func TestAnnotateWithoutBoxIsPassthrough(t *testing.T) {
	frame := grayFrame(64, 48)
	before := append([]byte(nil), frame.Pix...)

	got := NewRenderer().Annotate(frame, nil)
	if got != frame {
		t.Error("Annotate() should return the frame it was given")
	}
	if !bytes.Equal(frame.Pix, before) {
		t.Error("frame modified although no box was supplied")
	}
}

func TestAnnotateDrawsRectangle(t *testing.T) {
	frame := grayFrame(100, 100)
	box := &types.BoundingBox{X: 20, Y: 30, W: 40, H: 30}
	r := &Renderer{Labels: false}
	r.Annotate(frame, box)

	edges := []image.Point{
		{20, 30}, {21, 31}, // top-left, two pixels thick
		{60, 30}, {59, 31}, // top-right
		{20, 60}, {40, 59}, // bottom edge
	}
	for _, p := range edges {
		if c := frame.RGBAAt(p.X, p.Y); c != boxColor {
			t.Errorf("pixel %v = %+v, want box color", p, c)
		}
	}
	// Inside and outside the stroke stay untouched
	for _, p := range []image.Point{{40, 45}, {22, 32}, {19, 45}, {61, 45}} {
		if c := frame.RGBAAt(p.X, p.Y); c != (color.RGBA{40, 40, 40, 255}) {
			t.Errorf("pixel %v = %+v, want untouched", p, c)
		}
	}
}

func TestAnnotateLabelsAboveCorners(t *testing.T) {
	frame := grayFrame(200, 120)
	NewRenderer().Annotate(frame, &types.BoundingBox{X: 30, Y: 60, W: 50, H: 40})

	// Labels sit in the 13 px tall band ending 5 px above the top edge.
	found := false
	for y := 60 - labelOffset - 10; y < 60-labelOffset+3 && !found; y++ {
		for x := 30; x < 30+40; x++ {
			if frame.RGBAAt(x, y) == labelColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no label pixels found above the top-left corner")
	}
}

func TestAnnotateWithoutLabels(t *testing.T) {
	frame := grayFrame(200, 120)
	r := &Renderer{Labels: false}
	r.Annotate(frame, &types.BoundingBox{X: 30, Y: 60, W: 50, H: 40})
	for i := 0; i < len(frame.Pix); i += 4 {
		c := color.RGBA{frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2], frame.Pix[i+3]}
		if c == labelColor {
			t.Fatal("label drawn although Labels is false")
		}
	}
}

func TestAnnotateClipsAtFrameEdges(t *testing.T) {
	frame := grayFrame(10, 10)
	// Must not panic when the box leaves the frame
	NewRenderer().Annotate(frame, &types.BoundingBox{X: -5, Y: -5, W: 30, H: 30})
	NewRenderer().Circles(frame, []types.BoundingBox{{X: 5, Y: 5, W: 20, H: 20}})
}

func TestCircles(t *testing.T) {
	frame := grayFrame(50, 50)
	NewRenderer().Circles(frame, []types.BoundingBox{{X: 10, Y: 10, W: 20, H: 20}})

	if c := frame.RGBAAt(30, 20); c != boxColor { // rightmost point of r=10 around (20,20)
		t.Errorf("circle edge = %+v, want box color", c)
	}
	if c := frame.RGBAAt(20, 20); c == boxColor {
		t.Error("circle center should not be filled")
	}
}
