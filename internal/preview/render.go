package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

const thumbnailQuality = 80

// Renderer turns raw file bytes into tracked preview handles. Files that do
// not decode as images produce no handle; callers fall back to a placeholder.
type Renderer struct {
	tracker *Tracker
	maxSide int
}

func NewRenderer(maxSide int) *Renderer {
	if maxSide <= 0 {
		maxSide = 256
	}
	return &Renderer{tracker: NewTracker(), maxSide: maxSide}
}

func (r *Renderer) Tracker() *Tracker { return r.tracker }

// Render decodes data as an image and returns a handle over a downscaled
// thumbnail plus the original pixel dimensions. The returned handle is
// owned by the caller and must be released exactly once.
func (r *Renderer) Render(data []byte) (*Handle, int, int, error) {
	img, err := decode(data)
	if err != nil {
		return nil, 0, 0, err
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	thumb := imaging.Fit(img, r.maxSide, r.maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode thumbnail: %w", err)
	}

	return r.tracker.Acquire(buf.Bytes(), "image/jpeg"), width, height, nil
}

func decode(data []byte) (image.Image, error) {
	if mimetype.Detect(data).Is("image/webp") {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
