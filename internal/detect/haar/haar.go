// Package haar detects faces with OpenCV's Haar cascade classifier.
package haar

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Params are passed to DetectMultiScaleWithParams.
type Params struct {
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int
}

// DefaultParams match the frontal-face settings the viewer has always used.
func DefaultParams() Params {
	return Params{ScaleFactor: 1.1, MinNeighbors: 5, MinSize: 30}
}

// Classifier wraps a loaded gocv.CascadeClassifier. It is not safe for
// concurrent use; construct one per playback session.
type Classifier struct {
	cascade gocv.CascadeClassifier
	params  Params
}

// New loads a cascade model such as haarcascade_frontalface_default.xml.
func New(cascadePath string, params Params) (*Classifier, error) {
	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("error loading cascade file: %s", cascadePath)
	}
	return &Classifier{cascade: cascade, params: params}, nil
}

func (c *Classifier) Detect(gray *image.Gray) []image.Rectangle {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil
	}
	defer mat.Close()
	minSize := image.Pt(c.params.MinSize, c.params.MinSize)
	return c.cascade.DetectMultiScaleWithParams(mat, c.params.ScaleFactor, c.params.MinNeighbors, 0, minSize, image.Point{})
}

func (c *Classifier) Close() error {
	return c.cascade.Close()
}
