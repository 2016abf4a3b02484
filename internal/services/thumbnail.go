package services

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"

	"slidecast/internal/engine"
)

var ErrNoThumbnail = errors.New("thumbnails are only available for image slides")

// Thumbnail renders a JPEG preview of an image file that fits within width x height
func Thumbnail(path string, width, height int) ([]byte, error) {
	fileType, ok := LookupFileType(filepath.Ext(path))
	if !ok || fileType.Kind != engine.KindImage {
		return nil, ErrNoThumbnail
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	preview := imaging.Fit(img, width, height, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, preview, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
