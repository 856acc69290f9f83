// Package detect finds the primary face in a frame.
package detect

import (
	"image"

	"github.com/andresmejia3/facewatch/internal/types"
	"github.com/disintegration/imaging"
)

// Detector runs a multi-scale cascade over a single-channel image and
// returns candidate face rectangles in the detector's own order.
type Detector interface {
	Detect(gray *image.Gray) []image.Rectangle
}

// Locator picks the primary face out of a detector's candidates.
// It holds no state besides its detector; identical frames are always re-detected.
type Locator struct {
	detector Detector
}

func NewLocator(d Detector) *Locator {
	return &Locator{detector: d}
}

// Locate returns the candidate with the largest area. Finding no face is not
// an error; ok is false.
func (l *Locator) Locate(frame image.Image) (box types.BoundingBox, ok bool) {
	return Largest(l.LocateAll(frame))
}

// LocateAll returns every candidate box.
func (l *Locator) LocateAll(frame image.Image) []types.BoundingBox {
	rects := l.detector.Detect(Grayscale(frame))
	boxes := make([]types.BoundingBox, 0, len(rects))
	for _, r := range rects {
		boxes = append(boxes, types.FromRect(r))
	}
	return boxes
}

// Largest returns the box with maximum width*height. On equal areas the first
// one wins.
func Largest(boxes []types.BoundingBox) (types.BoundingBox, bool) {
	if len(boxes) == 0 {
		return types.BoundingBox{}, false
	}
	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() {
			best = b
		}
	}
	return best, true
}

// Grayscale converts img to an 8-bit intensity image anchored at the origin.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	// imaging.Grayscale keeps the NRGBA layout with R=G=B
	n := imaging.Grayscale(img)
	gray := image.NewGray(n.Rect)
	for i := range gray.Pix {
		gray.Pix[i] = n.Pix[i*4]
	}
	return gray
}
