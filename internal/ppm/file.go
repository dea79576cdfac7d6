package ppm

import (
	"io"
	"os"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
	"github.com/klauspost/compress/zstd"
)

// Extension is the conventional file suffix of a pixel grid.
const Extension = ".ppm"

// CompressedSuffix marks a zstd framed pixel grid, e.g. "image.ppm.zst".
const CompressedSuffix = ".zst"

// IsCompressed reports whether path names a zstd framed pixel grid.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

// ReadFile reads a pixel grid from disk, decompressing it when the path
// ends in ".zst". A missing or unreadable file is reported as malformed
// input.
func ReadFile(path string) (*quadtree.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("failed to open pixel grid").
			WithType(ErrTypeMalformedInput).
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.New("failed to open zstd stream").
				WithType(ErrTypeMalformedInput).
				WithTag("path", path).
				Wrap(err)
		}
		defer dec.Close()
		r = dec
	}

	buf, err := Read(r)
	if err != nil {
		return nil, errors.New("failed to decode pixel grid").
			WithType(ErrTypeMalformedInput).
			WithTag("path", path).
			Wrap(err)
	}
	return buf, nil
}

// WriteFile writes buf to disk, compressing it when the path ends in ".zst".
func WriteFile(path string, buf *quadtree.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("failed to create output file").
			WithTag("path", path).
			Wrap(err)
	}

	if err := writeTo(f, path, buf); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return errors.New("failed to close output file").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}

func writeTo(f *os.File, path string, buf *quadtree.Buffer) error {
	if !IsCompressed(path) {
		return Write(f, buf)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return errors.New("failed to start zstd stream").
			WithTag("path", path).
			Wrap(err)
	}
	if err := Write(enc, buf); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return errors.New("failed to finish zstd stream").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
