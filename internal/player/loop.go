package player

import (
	"context"
	"fmt"
	"time"
)

// Event is a user action forwarded by the host.
type Event int

const (
	EventNone Event = iota
	EventTogglePlay
	EventSkipForward
	EventSkipBackward
	EventClearOverride
	EventQuit
)

// KeyEvent maps a key code from the display to an event. Unbound keys map to EventNone.
func KeyEvent(key int) Event {
	switch key {
	case ' ':
		return EventTogglePlay
	case 'd', 'D':
		return EventSkipForward
	case 'a', 'A':
		return EventSkipBackward
	case 'c', 'C':
		return EventClearOverride
	case 'q', 'Q', 27: // Esc
		return EventQuit
	}
	return EventNone
}

// EventSource is polled once per tick for the next pending user action.
type EventSource interface {
	Poll() Event
}

// SeekSource is implemented by event sources that can also request a jump to
// an arbitrary frame, such as a position slider. ok is false when the user has
// not moved it since the last poll.
type SeekSource interface {
	PollSeek() (index int, ok bool)
}

// Loop schedules ticks and user events for a Controller on a single goroutine.
type Loop struct {
	Controller *Controller
	Events     EventSource
	Period     time.Duration
	// OnError receives failures from ticks and actions; the loop keeps running.
	OnError func(error)
}

func NewLoop(c *Controller, events EventSource, onError func(error)) *Loop {
	return &Loop{Controller: c, Events: events, Period: TickPeriod, OnError: onError}
}

// Run ticks until ctx is done or the user quits. Quitting returns nil.
func (l *Loop) Run(ctx context.Context) error {
	period := l.Period
	if period <= 0 {
		period = TickPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if l.Events != nil {
			ev := l.Events.Poll()
			if ev == EventQuit {
				return nil
			}
			l.report(l.Dispatch(ev))
			if s, ok := l.Events.(SeekSource); ok {
				if index, ok := s.PollSeek(); ok {
					l.report(l.Controller.Seek(index))
				}
			}
		}
		l.report(l.Controller.Tick())
	}
}

// Dispatch applies a single event to the controller.
func (l *Loop) Dispatch(ev Event) error {
	c := l.Controller
	switch ev {
	case EventTogglePlay:
		return c.TogglePlay()
	case EventSkipForward:
		return c.SkipForward()
	case EventSkipBackward:
		return c.SkipBackward()
	case EventClearOverride:
		c.ClearOverride()
	}
	return nil
}

func (l *Loop) report(err error) {
	if err != nil && l.OnError != nil {
		l.OnError(err)
	}
}

// FormatPosition renders "MM:SS / MM:SS" for a frame index and frame count
// at the nominal frame rate.
func FormatPosition(index, total int) string {
	return fmt.Sprintf("%s / %s", fmtClock(index), fmtClock(total))
}

func fmtClock(frames int) string {
	if frames < 0 {
		frames = 0
	}
	seconds := frames / NominalFPS
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
