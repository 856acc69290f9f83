// Package display shows annotated frames in an OpenCV window and reads the keyboard.
package display

import (
	"fmt"
	"image"

	"github.com/andresmejia3/facewatch/internal/player"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

const trackbarName = "Position"

// Window implements player.Display, player.EventSource and player.SeekSource.
// The position trackbar follows playback; moving it by hand requests a seek.
type Window struct {
	window   *gocv.Window
	trackbar *gocv.Trackbar
	max      int
	shown    int // trackbar position last set by Show
	title    string
	width    int
	height   int
	log      logrus.FieldLogger
}

// New opens a window whose frames are scaled to fit width x height.
func New(title string, width, height int, log logrus.FieldLogger) *Window {
	if log == nil {
		log = logrus.StandardLogger()
	}
	w := gocv.NewWindow(title)
	w.ResizeWindow(width, height)
	return &Window{window: w, title: title, width: width, height: height, log: log}
}

// Show renders frame with the playback position in the title bar.
func (w *Window) Show(frame *image.RGBA, pos player.Position) {
	var img image.Image = frame
	b := frame.Bounds()
	if b.Dx() > w.width || b.Dy() > w.height {
		img = imaging.Fit(frame, w.width, w.height, imaging.Lanczos)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		w.log.WithError(err).Warn("frame conversion failed")
		return
	}
	defer mat.Close()

	w.window.IMShow(mat)
	w.follow(pos)
	w.window.SetWindowTitle(fmt.Sprintf("%s  %s", w.title, player.FormatPosition(pos.Index, pos.Total)))
}

// ShowImage displays a single image until a key is pressed.
func (w *Window) ShowImage(img image.Image) {
	mat, err := gocv.ImageToMatRGB(imaging.Fit(img, w.width, w.height, imaging.Lanczos))
	if err != nil {
		w.log.WithError(err).Warn("image conversion failed")
		return
	}
	defer mat.Close()
	w.window.IMShow(mat)
	w.window.WaitKey(0)
}

// Poll pumps the window's event queue and returns the pressed key's event.
func (w *Window) Poll() player.Event {
	return player.KeyEvent(w.window.WaitKey(1))
}

// PollSeek reports a trackbar position the user chose since the last frame shown.
func (w *Window) PollSeek() (int, bool) {
	if w.trackbar == nil {
		return 0, false
	}
	p := w.trackbar.GetPos()
	if p == w.shown {
		return 0, false
	}
	w.shown = p
	return p, true
}

// follow moves the trackbar to the displayed frame, creating it once the
// frame count is known.
func (w *Window) follow(pos player.Position) {
	if pos.Total <= 1 {
		return
	}
	if w.trackbar == nil {
		w.trackbar = w.window.CreateTrackbar(trackbarName, pos.Total-1)
		w.max = pos.Total - 1
	} else if w.max != pos.Total-1 {
		w.trackbar.SetMax(pos.Total - 1)
		w.max = pos.Total - 1
	}
	w.trackbar.SetPos(pos.Index)
	w.shown = pos.Index
}

func (w *Window) Close() error {
	return w.window.Close()
}
