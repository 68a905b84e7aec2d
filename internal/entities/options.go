package entities

// ConversionOptions is the full set of user-selected parameters for one
// conversion call. Pointer fields are optional and omitted from the request
// when nil; booleans are always sent. Quality, lossless and progressive only
// matter for some target formats, but that is a display concern the remote
// service resolves on its own.
type ConversionOptions struct {
	To           string `validate:"required,oneof=webp jpg png tiff gif bmp pdf"`
	Quality      *int   `validate:"omitempty,gte=1,lte=100"`
	Lossless     bool
	Progressive  bool
	KeepMetadata bool
	ToSRGB       bool
	Width        *int `validate:"omitempty,gte=1"`
	Height       *int `validate:"omitempty,gte=1"`
	Fit          bool
	RotateDeg    int  `validate:"gte=-360,lte=360"`
	CropX        *int `validate:"omitempty,gte=0"`
	CropY        *int `validate:"omitempty,gte=0"`
	CropW        *int `validate:"omitempty,gte=1"`
	CropH        *int `validate:"omitempty,gte=1"`
	Background   string
}
