package source

import "image"

// Memory serves frames held in memory. Every Next returns a copy so callers
// may draw on it without touching the stored frames.
type Memory struct {
	frames []*image.RGBA
	pos    int
}

// NewMemory wraps frames; the slice is retained, not copied.
func NewMemory(frames []*image.RGBA) *Memory {
	return &Memory{frames: frames}
}

func (m *Memory) Next() (*image.RGBA, error) {
	if m.pos >= len(m.frames) {
		return nil, ErrEndOfStream
	}
	f := m.frames[m.pos]
	m.pos++
	return ToRGBA(f), nil
}

func (m *Memory) Seek(index int) int {
	m.pos = Clamp(index, len(m.frames))
	return m.pos
}

func (m *Memory) FrameCount() int { return len(m.frames) }

func (m *Memory) Position() int { return m.pos }

func (m *Memory) Close() error {
	m.frames = nil
	m.pos = 0
	return nil
}
