package detect

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoParams tunes the pigo cascade.
type PigoParams struct {
	MinSize      int     // Minimum face size (pixels)
	MaxSize      int     // Maximum face size (pixels)
	ShiftFactor  float64 // Shift factor for detection window
	ScaleFactor  float64 // Scale factor for image pyramid
	IoUThreshold float64 // IoU threshold for clustering
	MinQuality   float32 // Detections scoring below are dropped
}

// DefaultPigoParams mirror the values the Haar backend uses where they overlap.
func DefaultPigoParams() PigoParams {
	return PigoParams{
		MinSize:      30,
		MaxSize:      1000,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}
}

// Pigo is a pure Go cascade detector.
type Pigo struct {
	classifier *pigo.Pigo
	params     PigoParams
}

// LoadPigo reads and unpacks a pigo cascade file (e.g. "facefinder").
func LoadPigo(cascadePath string, params PigoParams) (*Pigo, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}
	return NewPigo(data, params)
}

func NewPigo(cascade []byte, params PigoParams) (*Pigo, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade: %w", err)
	}
	return &Pigo{classifier: classifier, params: params}, nil
}

func (p *Pigo) Detect(gray *image.Gray) []image.Rectangle {
	b := gray.Bounds()
	cParams := pigo.CascadeParams{
		MinSize:     p.params.MinSize,
		MaxSize:     p.params.MaxSize,
		ShiftFactor: p.params.ShiftFactor,
		ScaleFactor: p.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix,
			Rows:   b.Dy(),
			Cols:   b.Dx(),
			Dim:    gray.Stride,
		},
	}

	dets := p.classifier.RunCascade(cParams, 0.0)
	dets = p.classifier.ClusterDetections(dets, p.params.IoUThreshold)

	var rects []image.Rectangle
	for _, det := range dets {
		if det.Q < p.params.MinQuality {
			continue
		}
		// Row/Col is the window center, Scale its side length
		half := det.Scale / 2
		rects = append(rects, image.Rect(det.Col-half, det.Row-half, det.Col-half+det.Scale, det.Row-half+det.Scale))
	}
	return rects
}
