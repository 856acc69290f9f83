package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solidFrames(n int) []*image.RGBA {
	frames := make([]*image.RGBA, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = uint8(i), uint8(i), uint8(i), 255
		}
		frames[i] = img
	}
	return frames
}

func TestClamp(t *testing.T) {
	tests := []struct {
		index, count, want int
	}{
		{-5, 10, 0},
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 9},
		{42, 10, 9},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.index, tt.count); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
}

func TestMemoryReadToEnd(t *testing.T) {
	m := NewMemory(solidFrames(3))
	for i := 0; i < 3; i++ {
		f, err := m.Next()
		if err != nil {
			t.Fatalf("Next() frame %d: %v", i, err)
		}
		if f.Pix[0] != uint8(i) {
			t.Errorf("frame %d has value %d", i, f.Pix[0])
		}
	}
	if _, err := m.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
	if m.Position() != 3 {
		t.Errorf("Position() = %d at end, want 3", m.Position())
	}
}

func TestMemorySeekClampsAndReturnsCopies(t *testing.T) {
	frames := solidFrames(5)
	m := NewMemory(frames)

	if got := m.Seek(99); got != 4 {
		t.Errorf("Seek(99) = %d, want 4", got)
	}
	if got := m.Seek(-1); got != 0 {
		t.Errorf("Seek(-1) = %d, want 0", got)
	}

	m.Seek(2)
	f, _ := m.Next()
	f.Pix[0] = 200
	if frames[2].Pix[0] != 2 {
		t.Error("Next() must return a copy of the stored frame")
	}
}

func TestOpenImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.png")

	img := image.NewRGBA(image.Rect(0, 0, 6, 3))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := OpenImage(path)
	if err != nil {
		t.Fatalf("OpenImage() error = %v", err)
	}
	defer src.Close()
	if src.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", src.FrameCount())
	}
	frame, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if frame.Bounds().Dx() != 6 || frame.Bounds().Dy() != 3 {
		t.Errorf("unexpected bounds %v", frame.Bounds())
	}
	if c := frame.RGBAAt(1, 1); c.R != 10 || c.G != 20 || c.B != 30 {
		t.Errorf("pixel mismatch: %+v", c)
	}
}

func TestOpenErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.mp4")

	_, err := OpenImage(filepath.Join(t.TempDir(), "nope.png"))
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("OpenImage() error = %v, want *OpenError", err)
	}

	_, err = OpenFFmpeg(context.Background(), missing)
	if !errors.As(err, &oe) {
		t.Fatalf("OpenFFmpeg() error = %v, want *OpenError", err)
	}
	if oe.Path != missing || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenError should carry the path and unwrap to the cause: %v", err)
	}

	_, err = OpenFFmpeg(context.Background(), t.TempDir())
	if !errors.As(err, &oe) {
		t.Errorf("directory input: error = %v, want *OpenError", err)
	}
}

func TestIsImage(t *testing.T) {
	for path, want := range map[string]bool{
		"a.PNG":     true,
		"b.jpeg":    true,
		"c.mp4":     false,
		"d.avi":     false,
		"noext":     false,
		"dir.png/x": false,
		"e.bmp":     true,
	} {
		if got := IsImage(path); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", path, got, want)
		}
	}
}
