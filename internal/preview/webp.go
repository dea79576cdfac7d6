package preview

import (
	"bytes"
	"image"

	"github.com/gen2brain/webp"
)

// WebPEncoder encodes previews as WebP. Quality 100 switches to lossless
// mode so leaf boundaries stay sharp.
type WebPEncoder struct {
	Quality int
}

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	quality := e.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	opts := webp.Options{
		Lossless: quality >= 100,
		Quality:  quality,
	}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *WebPEncoder) Format() string        { return "webp" }
func (e *WebPEncoder) MimeType() string      { return "image/webp" }
func (e *WebPEncoder) FileExtension() string { return ".webp" }
