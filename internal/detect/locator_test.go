package detect

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/andresmejia3/facewatch/internal/types"
)

// fakeDetector returns canned rectangles and remembers what it was given.
type fakeDetector struct {
	rects []image.Rectangle
	got   *image.Gray
}

func (f *fakeDetector) Detect(gray *image.Gray) []image.Rectangle {
	f.got = gray
	return f.rects
}

func TestLargest(t *testing.T) {
	tests := []struct {
		name  string
		boxes []types.BoundingBox
		want  types.BoundingBox
		ok    bool
	}{
		{
			name: "No candidates",
			ok:   false,
		},
		{
			name:  "Single candidate",
			boxes: []types.BoundingBox{{X: 1, Y: 2, W: 3, H: 4}},
			want:  types.BoundingBox{X: 1, Y: 2, W: 3, H: 4},
			ok:    true,
		},
		{
			name: "Largest in the middle",
			boxes: []types.BoundingBox{
				{X: 0, Y: 0, W: 10, H: 10},
				{X: 5, Y: 5, W: 30, H: 20},
				{X: 9, Y: 9, W: 20, H: 20},
			},
			want: types.BoundingBox{X: 5, Y: 5, W: 30, H: 20},
			ok:   true,
		},
		{
			name: "Tie keeps first seen",
			boxes: []types.BoundingBox{
				{X: 0, Y: 0, W: 20, H: 10},
				{X: 50, Y: 50, W: 10, H: 20},
			},
			want: types.BoundingBox{X: 0, Y: 0, W: 20, H: 10},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Largest(tt.boxes)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Largest() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLocateConvertsToGray(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			frame.SetRGBA(x, y, color.RGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}
	fd := &fakeDetector{rects: []image.Rectangle{image.Rect(1, 1, 3, 3), image.Rect(2, 2, 6, 5)}}
	loc := NewLocator(fd)

	box, ok := loc.Locate(frame)
	if !ok {
		t.Fatal("expected a face")
	}
	if want := (types.BoundingBox{X: 2, Y: 2, W: 4, H: 3}); box != want {
		t.Errorf("Locate() = %v, want %v", box, want)
	}

	if fd.got == nil {
		t.Fatal("detector was not called")
	}
	if fd.got.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("gray bounds = %v", fd.got.Bounds())
	}
	if v := fd.got.GrayAt(3, 3).Y; v < 99 || v > 101 {
		t.Errorf("gray value = %d, want ~100", v)
	}
}

func TestLocateNoFace(t *testing.T) {
	loc := NewLocator(&fakeDetector{})
	if _, ok := loc.Locate(image.NewRGBA(image.Rect(0, 0, 2, 2))); ok {
		t.Error("expected no face")
	}
	if all := loc.LocateAll(image.NewRGBA(image.Rect(0, 0, 2, 2))); len(all) != 0 {
		t.Errorf("LocateAll() = %v, want empty", all)
	}
}

func TestGrayscaleOffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 14, 12))
	src.SetRGBA(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	g := Grayscale(src)
	if g.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v", g.Bounds())
	}
	if g.GrayAt(0, 0).Y != 255 || g.GrayAt(1, 0).Y != 0 {
		t.Errorf("pixels not translated to origin: %v", g.Pix)
	}
}

func TestLoadPigoMissingFile(t *testing.T) {
	if _, err := LoadPigo(filepath.Join(t.TempDir(), "facefinder"), DefaultPigoParams()); err == nil {
		t.Error("expected error for missing cascade")
	}
}
