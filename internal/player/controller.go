// Package player drives playback of a video with face highlighting.
//
// A Controller is single threaded: the host calls Tick on a fixed period and
// forwards user actions from the same goroutine. Decoding, detection and
// drawing run synchronously inside those calls.
package player

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/andresmejia3/facewatch/internal/batch"
	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/overlay"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/types"
	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// TickPeriod is fixed regardless of the source's frame rate.
	TickPeriod = 33 * time.Millisecond
	// NominalFPS is the rate assumed for skips and time labels.
	NominalFPS = 30

	StreamingSkip = 1
	BufferedSkip  = 5 * NominalFPS
)

var (
	ErrNotLoaded    = errors.New("no video loaded")
	ErrInvalidInput = errors.New("invalid input")
)

type State int

const (
	Closed State = iota
	Paused
	Playing
	Ended
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Mode int

const (
	// Streaming decodes, detects and draws one frame per tick and loops at the end.
	Streaming Mode = iota
	// Buffered annotates the whole video on open and stops at the end.
	Buffered
)

// Position locates the displayed frame within the video.
type Position struct {
	Index int
	Total int
}

// Display presents a fully rendered frame. It must not keep or modify frame.
type Display interface {
	Show(frame *image.RGBA, pos Position)
}

// Editor lets the user correct the detected box when playback resumes.
// ok is false when the user dismisses the edit. Rejected input is reported
// with an error wrapping ErrInvalidInput.
type Editor interface {
	Edit(current types.BoundingBox) (box types.BoundingBox, ok bool, err error)
}

// Options configure a Controller.
type Options struct {
	Mode Mode
	// SkipFrames is the jump of SkipForward/SkipBackward. Zero picks the mode default.
	SkipFrames int
	// StartPaused opens videos in Paused instead of Playing.
	StartPaused bool
}

// Controller is the playback state machine.
type Controller struct {
	opts     Options
	open     source.Opener
	locator  *detect.Locator
	renderer *overlay.Renderer
	display  Display
	editor   Editor
	log      logrus.FieldLogger
	session  logrus.FieldLogger

	state    State
	path     string
	src      source.Source // Streaming
	frames   []*image.RGBA // Buffered
	next     int           // index of the frame the next tick shows
	detected *types.BoundingBox
	override *types.BoundingBox
}

func New(opts Options, open source.Opener, locator *detect.Locator, renderer *overlay.Renderer, display Display) *Controller {
	if opts.SkipFrames <= 0 {
		opts.SkipFrames = StreamingSkip
		if opts.Mode == Buffered {
			opts.SkipFrames = BufferedSkip
		}
	}
	log := logrus.StandardLogger()
	return &Controller{
		opts:     opts,
		open:     open,
		locator:  locator,
		renderer: renderer,
		display:  display,
		log:      log,
		session:  log,
	}
}

// SetEditor installs the box editor offered on resume. Nil disables editing.
func (c *Controller) SetEditor(e Editor) { c.editor = e }

func (c *Controller) SetLogger(l logrus.FieldLogger) {
	c.log = l
	c.session = l
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Mode() Mode { return c.opts.Mode }

func (c *Controller) Path() string { return c.path }

// Current is the index of the most recently displayed frame.
func (c *Controller) Current() int {
	if c.next == 0 {
		return 0
	}
	return c.next - 1
}

// Next is the index of the frame the next tick displays; it equals Total at the end.
func (c *Controller) Next() int { return c.next }

func (c *Controller) Total() int {
	if c.opts.Mode == Buffered {
		return len(c.frames)
	}
	if c.src == nil {
		return 0
	}
	return c.src.FrameCount()
}

// Detected is the most recent box found by the locator, or nil.
func (c *Controller) Detected() *types.BoundingBox { return copyBox(c.detected) }

// Override is the user's corrected box, or nil.
func (c *Controller) Override() *types.BoundingBox { return copyBox(c.override) }

// ClearOverride returns to drawing detected boxes.
func (c *Controller) ClearOverride() { c.override = nil }

// Open loads path, replacing any open video. In Buffered mode the whole video
// is annotated first, reporting through onProgress. On failure the returned
// error is a *source.OpenError and the current state is left untouched.
func (c *Controller) Open(path string, onProgress types.ProgressFunc) error {
	src, err := c.open(path)
	if err != nil {
		var oe *source.OpenError
		if !errors.As(err, &oe) {
			err = &source.OpenError{Path: path, Err: err}
		}
		c.log.WithError(err).Warn("open failed")
		return err
	}

	var frames []*image.RGBA
	if c.opts.Mode == Buffered {
		p := &batch.Processor{Locator: c.locator, Renderer: c.renderer, Log: c.log}
		frames = p.ProcessSource(src, onProgress)
		src.Close()
		src = nil
	}

	c.Close()
	c.path = path
	c.src = src
	c.frames = frames
	c.state = Playing
	if c.opts.StartPaused {
		c.state = Paused
	}

	fields := logrus.Fields{"session": uuid.NewString()}
	if id, err := utils.GenerateVideoID(path); err == nil {
		fields["video"] = id[:12]
	}
	c.session = c.log.WithFields(fields)
	c.session.WithFields(logrus.Fields{"path": path, "frames": c.Total(), "state": c.state}).Info("video opened")
	return nil
}

// Close releases the video and clears all playback state.
func (c *Controller) Close() error {
	var err error
	if c.src != nil {
		err = c.src.Close()
	}
	if c.state != Closed {
		c.session.Debug("video closed")
	}
	c.state = Closed
	c.path = ""
	c.src = nil
	c.frames = nil
	c.next = 0
	c.detected = nil
	c.override = nil
	c.session = c.log
	return err
}

// TogglePlay pauses a playing video and resumes a paused or ended one.
// Resuming from Paused first offers the editor the detected box. A rejected
// edit is returned as an error; playback still resumes with the previous
// override in place.
func (c *Controller) TogglePlay() error {
	switch c.state {
	case Closed:
		return ErrNotLoaded
	case Playing:
		c.state = Paused
		return nil
	case Paused:
		err := c.edit()
		c.state = Playing
		return err
	case Ended:
		c.state = Playing
	}
	return nil
}

func (c *Controller) edit() error {
	if c.editor == nil || c.detected == nil {
		return nil
	}
	box, ok, err := c.editor.Edit(*c.detected)
	if err != nil {
		c.session.WithError(err).Warn("bounding box edit rejected")
		return fmt.Errorf("bounding box edit: %w", err)
	}
	if ok {
		c.override = &box
		c.session.WithField("box", box.String()).Info("bounding box override set")
	}
	return nil
}

// Tick advances playback by one frame. It does nothing unless Playing, or
// Ended in Streaming mode where the video loops back to frame 0.
func (c *Controller) Tick() error {
	switch c.state {
	case Playing:
		return c.advance()
	case Ended:
		if c.opts.Mode == Streaming {
			c.src.Seek(0)
			c.next = 0
			c.state = Playing
			return c.advance()
		}
	}
	return nil
}

func (c *Controller) advance() error {
	if c.opts.Mode == Buffered {
		if c.next >= len(c.frames) {
			c.state = Ended
			return nil
		}
		c.show(c.frames[c.next], c.next)
		c.next++
		return nil
	}

	index := c.src.Position()
	frame, err := c.src.Next()
	if errors.Is(err, source.ErrEndOfStream) {
		c.next = c.src.Position()
		c.state = Ended
		return nil
	}
	if err != nil {
		c.state = Ended
		return fmt.Errorf("frame %d: %w", index, err)
	}
	c.next = c.src.Position()
	c.render(frame, index)
	return nil
}

// Seek displays the frame at index, clamped to the video, without changing state.
func (c *Controller) Seek(index int) error {
	if c.state == Closed {
		return ErrNotLoaded
	}
	index = source.Clamp(index, c.Total())

	if c.opts.Mode == Buffered {
		if len(c.frames) == 0 {
			return nil
		}
		c.show(c.frames[index], index)
		c.next = index + 1
		return nil
	}

	index = c.src.Seek(index)
	frame, err := c.src.Next()
	if errors.Is(err, source.ErrEndOfStream) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}
	c.next = c.src.Position()
	c.render(frame, index)
	return nil
}

func (c *Controller) SkipForward() error {
	return c.Seek(c.Current() + c.opts.SkipFrames)
}

func (c *Controller) SkipBackward() error {
	return c.Seek(c.Current() - c.opts.SkipFrames)
}

// render runs detection on a freshly decoded frame and draws the active box.
// The override replaces the detected box only on frames where a face was found.
func (c *Controller) render(frame *image.RGBA, index int) {
	if box, ok := c.locator.Locate(frame); ok {
		c.detected = &box
		active := box
		if c.override != nil {
			active = *c.override
		}
		c.renderer.Annotate(frame, &active)
	}
	c.show(frame, index)
}

func (c *Controller) show(frame *image.RGBA, index int) {
	if c.display != nil {
		c.display.Show(frame, Position{Index: index, Total: c.Total()})
	}
}

func copyBox(b *types.BoundingBox) *types.BoundingBox {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}
