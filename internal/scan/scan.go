// Package scan finds the single largest face box across a whole video.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/types"
)

// ResultFile is the name of the file WriteRecord produces.
const ResultFile = "largest_bbox_coordinates.txt"

// Record is the largest box seen during one scan.
type Record struct {
	Box  types.BoundingBox
	Area int
}

// Scanner runs a full pass over a video looking for the largest primary face.
type Scanner struct {
	Open       source.Opener
	Locator    *detect.Locator
	OnProgress types.ProgressFunc
}

// Scan opens path and scans it. found is false when no frame had a face,
// which is a result, not an error.
func (s *Scanner) Scan(path string) (rec Record, found bool, err error) {
	src, err := s.Open(path)
	if err != nil {
		var oe *source.OpenError
		if !errors.As(err, &oe) {
			err = &source.OpenError{Path: path, Err: err}
		}
		return Record{}, false, err
	}
	defer src.Close()
	return s.ScanSource(src)
}

// ScanSource rewinds src to frame 0 and reads to the end. Only a strictly
// larger area replaces the current record, so the first of equal boxes wins.
func (s *Scanner) ScanSource(src source.Source) (rec Record, found bool, err error) {
	total := src.FrameCount()
	src.Seek(0)

	done := 0
	for {
		frame, err := src.Next()
		if errors.Is(err, source.ErrEndOfStream) {
			break
		}
		if err != nil {
			return rec, found, fmt.Errorf("scan stopped at frame %d: %w", done, err)
		}
		done++

		if box, ok := s.Locator.Locate(frame); ok {
			if area := box.Area(); area > rec.Area {
				rec = Record{Box: box, Area: area}
				found = true
			}
		}
		if s.OnProgress != nil {
			if total < done {
				total = done
			}
			s.OnProgress(done, total)
		}
	}
	return rec, found, nil
}

// WriteRecord writes the box as a single line to ResultFile inside dir and
// returns the file's path.
func WriteRecord(dir string, box types.BoundingBox) (string, error) {
	path := filepath.Join(dir, ResultFile)
	line := fmt.Sprintf("Largest Bounding Box Coordinates: %s\n", box)
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return "", err
	}
	return path, nil
}
