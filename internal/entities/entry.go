package entities

import "github.com/shah-jinay/image-tool.io/internal/preview"

// Dimensions are the pixel bounds measured from a successful preview decode.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// QueueEntry is one ingested file waiting for conversion. Preview and Dims
// are nil when the file did not decode as an image; the UI then renders a
// type-based placeholder from Label instead of a thumbnail.
type QueueEntry struct {
	Name    string
	Size    int64
	Data    []byte
	Preview *preview.Handle
	Dims    *Dimensions
	Label   string
}
