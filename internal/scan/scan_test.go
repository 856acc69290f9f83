package scan

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/types"
)

// valueDetector finds faces only in frames whose gray level is listed.
type valueDetector map[uint8][]image.Rectangle

func (v valueDetector) Detect(gray *image.Gray) []image.Rectangle {
	return v[gray.Pix[0]]
}

func frames(n int) []*image.RGBA {
	out := make([]*image.RGBA, n)
	for i := range out {
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		v := uint8(i * 20)
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = v, v, v, 255
		}
		out[i] = img
	}
	return out
}

func scanner(d detect.Detector, byPath map[string][]*image.RGBA) *Scanner {
	return &Scanner{
		Open: func(path string) (source.Source, error) {
			f, ok := byPath[path]
			if !ok {
				return nil, &source.OpenError{Path: path, Err: os.ErrNotExist}
			}
			return source.NewMemory(f), nil
		},
		Locator: detect.NewLocator(d),
	}
}

func TestScanFindsLargestBox(t *testing.T) {
	// Frame 4 holds (10,10,20,20), frame 7 holds (5,5,15,15)
	det := valueDetector{
		80:  {image.Rect(10, 10, 30, 30)},
		140: {image.Rect(5, 5, 20, 20)},
	}
	s := scanner(det, map[string][]*image.RGBA{"clip.avi": frames(10)})

	var last [2]int
	s.OnProgress = func(done, total int) { last = [2]int{done, total} }

	rec, found, err := s.Scan("clip.avi")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !found {
		t.Fatal("expected a box")
	}
	want := types.BoundingBox{X: 10, Y: 10, W: 20, H: 20}
	if rec.Box != want || rec.Area != 400 {
		t.Errorf("Scan() = %+v, want %v with area 400", rec, want)
	}
	if last != [2]int{10, 10} {
		t.Errorf("final progress = %v, want [10 10]", last)
	}

	dir := t.TempDir()
	path, err := WriteRecord(dir, rec.Box)
	if err != nil {
		t.Fatalf("WriteRecord() error = %v", err)
	}
	if path != filepath.Join(dir, ResultFile) {
		t.Errorf("WriteRecord() path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Largest Bounding Box Coordinates: (10, 10, 20, 20)\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestScanTieKeepsFirst(t *testing.T) {
	det := valueDetector{
		20: {image.Rect(0, 0, 10, 20)},
		60: {image.Rect(30, 30, 50, 40)},
	}
	s := scanner(det, map[string][]*image.RGBA{"v": frames(5)})
	rec, found, err := s.Scan("v")
	if err != nil || !found {
		t.Fatalf("Scan() = %v, %v", found, err)
	}
	if rec.Box != (types.BoundingBox{X: 0, Y: 0, W: 10, H: 20}) {
		t.Errorf("tie should keep the first box, got %v", rec.Box)
	}
}

func TestScanNoFaces(t *testing.T) {
	s := scanner(valueDetector{}, map[string][]*image.RGBA{"v": frames(3)})
	_, found, err := s.Scan("v")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if found {
		t.Error("expected no box")
	}
}

func TestScanRewindsBeforeReading(t *testing.T) {
	det := valueDetector{0: {image.Rect(0, 0, 40, 40)}}
	src := source.NewMemory(frames(3))
	src.Seek(2)
	s := &Scanner{Locator: detect.NewLocator(det)}
	rec, found, err := s.ScanSource(src)
	if err != nil || !found || rec.Area != 1600 {
		t.Errorf("ScanSource() = %+v, %v, %v; frame 0 was skipped", rec, found, err)
	}
}

func TestScanOpenError(t *testing.T) {
	s := scanner(valueDetector{}, nil)
	_, _, err := s.Scan("missing.mp4")
	var oe *source.OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("Scan() error = %v, want *source.OpenError", err)
	}
}
