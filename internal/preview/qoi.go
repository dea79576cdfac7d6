package preview

import (
	"bytes"
	"image"

	"github.com/xfmoulet/qoi"
)

// QOIEncoder encodes previews in the lossless "Quite OK Image" format,
// which handles the flat runs of a compressed grid well.
type QOIEncoder struct{}

func (e *QOIEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *QOIEncoder) Format() string        { return "qoi" }
func (e *QOIEncoder) MimeType() string      { return "image/qoi" }
func (e *QOIEncoder) FileExtension() string { return ".qoi" }
