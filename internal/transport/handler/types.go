package handler

import "github.com/shah-jinay/image-tool.io/internal/entities"

// EntrySummary is what the UI renders per queued file: either a thumbnail
// (HasPreview) or a type-based placeholder label.
type EntrySummary struct {
	Index      int                  `json:"index"`
	Name       string               `json:"name"`
	Size       int64                `json:"size"`
	HasPreview bool                 `json:"has_preview"`
	Dims       *entities.Dimensions `json:"dims,omitempty"`
	Label      string               `json:"label,omitempty"`
}

type ImportRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
