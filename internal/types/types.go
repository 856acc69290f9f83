package types

import (
	"fmt"
	"image"
)

// BoundingBox is an axis-aligned face region in pixel coordinates.
type BoundingBox struct {
	X int
	Y int
	W int
	H int
}

// FromRect converts a detector rectangle into a BoundingBox.
func FromRect(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Area is width times height.
func (b BoundingBox) Area() int {
	return b.W * b.H
}

// Rect returns the box as an image.Rectangle (Max is exclusive).
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Corners returns top-left, top-right, bottom-left and bottom-right, in that order.
func (b BoundingBox) Corners() [4]image.Point {
	return [4]image.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.W, Y: b.Y},
		{X: b.X, Y: b.Y + b.H},
		{X: b.X + b.W, Y: b.Y + b.H},
	}
}

// String renders the box as "(x, y, w, h)".
func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", b.X, b.Y, b.W, b.H)
}

// Detection pairs a frame with the primary face found in it, if any.
type Detection struct {
	Index int
	Frame *image.RGBA
	Box   BoundingBox
	Found bool
}

// BoxPtr returns the detected box, or nil when no face was found.
func (d Detection) BoxPtr() *BoundingBox {
	if !d.Found {
		return nil
	}
	b := d.Box
	return &b
}

// ProgressFunc is called synchronously after each frame of a full-video pass.
// total is the source's frame count, which may be 0 when unknown.
type ProgressFunc func(done, total int)
