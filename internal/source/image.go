package source

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// IsImage reports whether path names a still image rather than a video.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// OpenImage decodes a still image into a one-frame Source.
// EXIF orientation is applied so the frame matches what viewers show.
func OpenImage(path string) (Source, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return NewMemory([]*image.RGBA{ToRGBA(img)}), nil
}
