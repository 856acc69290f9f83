// Package batch decodes and annotates a whole video up front.
package batch

import (
	"errors"
	"image"

	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/overlay"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/types"
	"github.com/sirupsen/logrus"
)

// Processor annotates every frame of a source into memory.
type Processor struct {
	Open     source.Opener
	Locator  *detect.Locator
	Renderer *overlay.Renderer
	Log      logrus.FieldLogger
}

// Process opens path and returns its annotated frames in order.
// Only opening can fail; see ProcessSource for mid-stream errors.
func (p *Processor) Process(path string, onProgress types.ProgressFunc) ([]*image.RGBA, error) {
	src, err := p.Open(path)
	if err != nil {
		var oe *source.OpenError
		if !errors.As(err, &oe) {
			err = &source.OpenError{Path: path, Err: err}
		}
		return nil, err
	}
	defer src.Close()
	return p.ProcessSource(src, onProgress), nil
}

// ProcessSource walks src from frame 0 to the end, calling onProgress after
// each frame. A decode failure stops the pass and the frames accumulated so
// far are returned; an empty result is valid.
func (p *Processor) ProcessSource(src source.Source, onProgress types.ProgressFunc) []*image.RGBA {
	total := src.FrameCount()
	src.Seek(0)

	frames := make([]*image.RGBA, 0, total)
	for {
		frame, err := src.Next()
		if errors.Is(err, source.ErrEndOfStream) {
			break
		}
		if err != nil {
			p.logger().WithError(err).WithField("frame", len(frames)).Warn("decoding stopped early")
			break
		}

		d := types.Detection{Index: len(frames), Frame: frame}
		d.Box, d.Found = p.Locator.Locate(frame)
		frames = append(frames, p.Renderer.Annotate(d.Frame, d.BoxPtr()))

		if onProgress != nil {
			if total < len(frames) {
				total = len(frames)
			}
			onProgress(len(frames), total)
		}
	}
	p.logger().WithField("frames", len(frames)).Debug("batch pass complete")
	return frames
}

func (p *Processor) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}
