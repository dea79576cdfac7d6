package ppm

import (
	"bufio"
	"io"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// Write encodes buf as a plain pixel grid with max value 255, one image row
// per line.
func Write(w io.Writer, buf *quadtree.Buffer) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, 0, 32)
	header = append(header, Magic...)
	header = append(header, '\n')
	header = strconv.AppendInt(header, int64(buf.Width), 10)
	header = append(header, ' ')
	header = strconv.AppendInt(header, int64(buf.Height), 10)
	header = append(header, "\n255\n"...)
	if _, err := bw.Write(header); err != nil {
		return errors.New("failed to write pixel grid header").Wrap(err)
	}

	line := make([]byte, 0, buf.Width*12)
	for y := 0; y < buf.Height; y++ {
		line = line[:0]
		for x := 0; x < buf.Width; x++ {
			p := buf.At(x, y)
			if x > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendUint(line, uint64(p.R), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(p.G), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(p.B), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return errors.New("failed to write pixel grid row").
				WithTag("row", y).
				Wrap(err)
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.New("failed to flush pixel grid").Wrap(err)
	}
	return nil
}
