package preview

import (
	"bytes"
	"image"
	"image/png"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/disintegration/imaging"
)

// RasterEncoder encodes previews with the imaging package.
type RasterEncoder struct {
	format   imaging.Format
	name     string
	mimeType string
	ext      string
	quality  int
}

func newRasterEncoder(name string, quality int) (*RasterEncoder, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return nil, errors.New("unsupported preview format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("format", name).
			Wrap(err)
	}

	e := &RasterEncoder{format: f, name: name, quality: quality}
	switch f {
	case imaging.JPEG:
		e.mimeType, e.ext = "image/jpeg", ".jpg"
	case imaging.PNG:
		e.mimeType, e.ext = "image/png", ".png"
	case imaging.GIF:
		e.mimeType, e.ext = "image/gif", ".gif"
	case imaging.TIFF:
		e.mimeType, e.ext = "image/tiff", ".tiff"
	case imaging.BMP:
		e.mimeType, e.ext = "image/bmp", ".bmp"
	}
	return e, nil
}

func (e *RasterEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, e.format,
		imaging.JPEGQuality(e.quality),
		imaging.PNGCompressionLevel(png.BestSpeed),
	)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *RasterEncoder) Format() string        { return e.name }
func (e *RasterEncoder) MimeType() string      { return e.mimeType }
func (e *RasterEncoder) FileExtension() string { return e.ext }
