package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Screenshots saves viewer frames as PNG files named after the mesh frame
// they show.
type Screenshots struct {
	dir    string
	prefix string
}

// NewScreenshots returns a writer saving into dir. The directory is created
// on first use.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix}
}

// Path returns the file a frame is saved to.
func (s *Screenshots) Path(frame uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%05d.png", s.prefix, frame))
}

// Save writes bottom-up RGBA pixels, as read back from OpenGL, flipping them
// to top-down image order.
func (s *Screenshots) Save(frame uint64, pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", errors.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrap(err, "create screenshot directory")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}

	path := s.Path(frame)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create screenshot")
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", errors.Wrap(err, "encode screenshot")
	}
	return path, nil
}
