package queue

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/shah-jinay/image-tool.io/internal/entities"
)

// AddSamples queues two deterministic placeholder images, rendered gradients
// with labels, through the normal ingestion path. The same bytes come out on
// every call, which also makes them handy test fixtures: non-trivial image
// data without touching the network.
func (m *Manager) AddSamples(ctx context.Context) []entities.QueueEntry {
	return m.Ingest(ctx, []Input{
		{Name: "sample-1.png", DeclaredType: "image/png", Data: sampleGradient(640, 400, "Sample 1", false)},
		{Name: "sample-2.png", DeclaredType: "image/png", Data: sampleGradient(480, 480, "Sample 2", true)},
	})
}

// sampleGradient renders a horizontal or vertical two-channel gradient with
// a text label and encodes it as PNG.
func sampleGradient(w, h int, label string, vertical bool) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, b uint8
			if vertical {
				r = uint8(255 * y / h)
				b = uint8(255 * x / w)
			} else {
				r = uint8(255 * x / w)
				b = uint8(255 * y / h)
			}
			img.SetRGBA(x, y, color.RGBA{R: r, G: 96, B: b, A: 255})
		}
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
	}
	textWidth := d.MeasureString(label)
	d.Dot = fixed.Point26_6{
		X: fixed.I(w/2) - textWidth/2,
		Y: fixed.I(h / 2),
	}
	d.DrawString(label)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA into a buffer cannot fail in practice.
		panic(err)
	}
	return buf.Bytes()
}
