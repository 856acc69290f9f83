package types

import (
	"image"
	"testing"
)

func TestBoundingBoxString(t *testing.T) {
	b := BoundingBox{X: 10, Y: 10, W: 20, H: 20}
	if got := b.String(); got != "(10, 10, 20, 20)" {
		t.Errorf("String() = %q", got)
	}
	if b.Area() != 400 {
		t.Errorf("Area() = %d, want 400", b.Area())
	}
}

func TestFromRect(t *testing.T) {
	got := FromRect(image.Rect(30, 40, 5, 15)) // unordered corners
	want := BoundingBox{X: 5, Y: 15, W: 25, H: 25}
	if got != want {
		t.Errorf("FromRect() = %v, want %v", got, want)
	}
	if got.Rect() != image.Rect(5, 15, 30, 40) {
		t.Errorf("Rect() round trip mismatch: %v", got.Rect())
	}
}

func TestCorners(t *testing.T) {
	c := BoundingBox{X: 1, Y: 2, W: 3, H: 4}.Corners()
	want := [4]image.Point{{1, 2}, {4, 2}, {1, 6}, {4, 6}}
	if c != want {
		t.Errorf("Corners() = %v, want %v", c, want)
	}
}

func TestDetectionBoxPtr(t *testing.T) {
	if (Detection{}).BoxPtr() != nil {
		t.Error("expected nil box for a detection without a face")
	}
	d := Detection{Box: BoundingBox{W: 1, H: 1}, Found: true}
	p := d.BoxPtr()
	if p == nil || *p != d.Box {
		t.Fatalf("BoxPtr() = %v", p)
	}
	p.W = 9
	if d.Box.W != 1 {
		t.Error("BoxPtr must return a copy")
	}
}
