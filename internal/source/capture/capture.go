// Package capture reads video files through OpenCV's VideoCapture.
package capture

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/andresmejia3/facewatch/internal/source"
	"gocv.io/x/gocv"
)

// Capture is a source.Source over a gocv VideoCapture.
type Capture struct {
	video *gocv.VideoCapture
	mat   gocv.Mat
	total int
	pos   int
}

// Open opens a video file. Missing files and containers OpenCV cannot open
// fail with *source.OpenError.
func Open(path string) (source.Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &source.OpenError{Path: path, Err: err}
	}
	video, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, &source.OpenError{Path: path, Err: err}
	}
	if !video.IsOpened() {
		video.Close()
		return nil, &source.OpenError{Path: path, Err: errors.New("unsupported container")}
	}
	total := int(video.Get(gocv.VideoCaptureFrameCount))
	if total < 0 {
		total = 0
	}
	return &Capture{video: video, mat: gocv.NewMat(), total: total}, nil
}

func (c *Capture) Next() (*image.RGBA, error) {
	if ok := c.video.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, source.ErrEndOfStream
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", c.pos, err)
	}
	c.pos++
	return source.ToRGBA(img), nil
}

func (c *Capture) Seek(index int) int {
	index = source.Clamp(index, c.total)
	c.video.Set(gocv.VideoCapturePosFrames, float64(index))
	c.pos = index
	return index
}

func (c *Capture) FrameCount() int { return c.total }

func (c *Capture) Position() int { return c.pos }

func (c *Capture) Close() error {
	c.mat.Close()
	return c.video.Close()
}
