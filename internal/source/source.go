// Package source decodes videos and still images into sequential RGBA frames.
package source

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrEndOfStream is returned by Next once every frame has been read.
// It marks the normal end of a video, not a failure.
var ErrEndOfStream = errors.New("end of stream")

// OpenError reports a file that is missing, unreadable or not a supported container.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Source is a sequence of frames with random access by index.
type Source interface {
	// Next decodes the frame at Position and advances by one.
	// The returned frame is owned by the caller.
	Next() (*image.RGBA, error)
	// Seek moves to index, clamped to [0, FrameCount()-1], and returns the effective index.
	Seek(index int) int
	FrameCount() int
	// Position is the index of the frame the next call to Next returns.
	Position() int
	Close() error
}

// Opener opens a path as a Source.
type Opener func(path string) (Source, error)

// Clamp bounds index to [0, count-1]. A source with no frames clamps to 0.
func Clamp(index, count int) int {
	if index >= count {
		index = count - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// ToRGBA returns img as a freshly allocated *image.RGBA anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
