package preview

import (
	"image"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// DefaultQuality is used by lossy encoders when no quality is given.
const DefaultQuality = 90

// Error types returned by this package.
const (
	ErrTypeUnsupportedFormat = "unsupported-preview-format"
	ErrTypeInvalidQuality    = "invalid-preview-quality"
	ErrTypePreviewFailed     = "preview-failed"
)

// Encoder encodes a rendered grid into a viewable image file.
type Encoder interface {
	// Encode encodes an image to bytes in the preview format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "png", "webp", "qoi").
	Format() string

	// MimeType returns the media type of the encoded bytes.
	MimeType() string

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}

// Formats lists the accepted format names.
var Formats = []string{"png", "jpeg", "gif", "bmp", "tiff", "webp", "qoi"}

// NewEncoder creates an encoder for the given format and quality.
// quality only applies to jpeg and webp.
func NewEncoder(format string, quality int) (Encoder, error) {
	if quality <= 0 {
		quality = DefaultQuality
	}
	if quality > 100 {
		return nil, errors.New("preview quality out of range (1-100)").
			WithType(ErrTypeInvalidQuality).
			WithTag("quality", quality)
	}

	switch strings.ToLower(format) {
	case "png":
		return newRasterEncoder("png", quality)
	case "jpeg", "jpg":
		return newRasterEncoder("jpeg", quality)
	case "gif":
		return newRasterEncoder("gif", quality)
	case "bmp":
		return newRasterEncoder("bmp", quality)
	case "tiff", "tif":
		return newRasterEncoder("tiff", quality)
	case "webp":
		return &WebPEncoder{Quality: quality}, nil
	case "qoi":
		return &QOIEncoder{}, nil
	default:
		return nil, errors.New("unsupported preview format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("format", format).
			WithTag("supported", strings.Join(Formats, ", "))
	}
}
