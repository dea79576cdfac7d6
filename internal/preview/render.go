package preview

import (
	"encoding/base64"
	"image"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// Result contains an encoded preview ready to be returned over the wire.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Image converts buf to an image with grid drawn over it, shrinking it so
// neither side exceeds maxSide. Nearest-neighbor sampling keeps leaf blocks
// flat. A maxSide of zero or less keeps the original size.
func Image(buf *quadtree.Buffer, maxSide int, grid Grid) image.Image {
	img := grid.Apply(buf.Image())
	if maxSide <= 0 || (buf.Width <= maxSide && buf.Height <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.NearestNeighbor)
}

// Render encodes buf with enc and returns it base64 encoded.
func Render(buf *quadtree.Buffer, enc Encoder, maxSide int, grid Grid) (*Result, error) {
	img := Image(buf, maxSide, grid)

	data, err := enc.Encode(img)
	if err != nil {
		return nil, encodeFailed(enc, err)
	}

	return &Result{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    enc.MimeType(),
	}, nil
}

// WriteFile encodes buf at full size and writes it to path.
func WriteFile(path string, buf *quadtree.Buffer, enc Encoder, grid Grid) error {
	data, err := enc.Encode(grid.Apply(buf.Image()))
	if err != nil {
		return encodeFailed(enc, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("failed to write preview").
			WithType(ErrTypePreviewFailed).
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}

func encodeFailed(enc Encoder, err error) error {
	return errors.New("failed to encode preview").
		WithType(ErrTypePreviewFailed).
		WithTag("format", enc.Format()).
		Wrap(err)
}
