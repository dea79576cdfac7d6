package ppm

import (
	"bufio"
	"io"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// Magic is the format tag of a plain-text RGB pixel grid.
const Magic = "P3"

// MaxPixels caps the declared image size to keep a bogus header from
// allocating unbounded memory.
const MaxPixels = 1 << 28

// ErrTypeMalformedInput tags every error caused by bad file contents.
const ErrTypeMalformedInput = "malformed-input"

// Read parses a pixel grid:
//
//	P3
//	# comments and blank lines are skipped
//	<columns> <rows>
//	<max value>
//	r g b r g b ...
//
// Samples may be separated by any whitespace. When the max value is below
// 255, samples are rescaled to the 0-255 range. The number of samples must
// match the declared dimensions exactly.
func Read(r io.Reader) (*quadtree.Buffer, error) {
	s := newScanner(r)

	tag, line, err := s.require("format tag")
	if err != nil {
		return nil, err
	}
	if tag != Magic {
		return nil, malformed(line, "unsupported format tag", "token", tag)
	}

	width, err := s.int("columns")
	if err != nil {
		return nil, err
	}
	height, err := s.int("rows")
	if err != nil {
		return nil, err
	}
	if width < 1 || height < 1 || width > MaxPixels/height {
		return nil, malformed(s.line, "invalid dimensions", "columns", width, "rows", height)
	}

	maxVal, err := s.int("max value")
	if err != nil {
		return nil, err
	}
	if maxVal < 1 || maxVal > 255 {
		return nil, malformed(s.line, "max value must be between 1 and 255", "max_value", maxVal)
	}

	buf := quadtree.NewBuffer(width, height)
	for i := range buf.Pix {
		var rgb [3]uint8
		for c := range rgb {
			v, err := s.sample(maxVal, i, width*height)
			if err != nil {
				return nil, err
			}
			rgb[c] = v
		}
		buf.Pix[i] = quadtree.Pixel{R: rgb[0], G: rgb[1], B: rgb[2]}
	}

	if tok, line, err := s.next(); err == nil {
		return nil, malformed(line, "more samples than the declared dimensions", "token", tok, "columns", width, "rows", height)
	} else if err != io.EOF {
		return nil, errors.New("failed to read pixel grid").Wrap(err)
	}

	return buf, nil
}

// malformed builds a malformed-input error. tags are key/value pairs.
func malformed(line int, msg string, tags ...any) error {
	err := errors.New(msg).
		WithType(ErrTypeMalformedInput).
		WithTag("line", line)
	for i := 0; i+1 < len(tags); i += 2 {
		err = err.WithTag(tags[i].(string), tags[i+1])
	}
	return err
}

// scanner splits its input into whitespace separated tokens, dropping
// "#" comments up to the end of the line.
type scanner struct {
	r    *bufio.Reader
	line int
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r), line: 1}
}

// next returns the next token and the line it started on.
func (s *scanner) next() (string, int, error) {
	var tok []byte
	start := s.line
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), start, nil
			}
			return "", s.line, err
		}

		switch {
		case c == '#':
			if err := s.skipLine(); err != nil && err != io.EOF {
				return "", s.line, err
			}
			if len(tok) > 0 {
				return string(tok), start, nil
			}
		case isSpace(c):
			if c == '\n' {
				s.line++
			}
			if len(tok) > 0 {
				return string(tok), start, nil
			}
		default:
			if len(tok) == 0 {
				start = s.line
			}
			tok = append(tok, c)
		}
	}
}

func (s *scanner) skipLine() error {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if c == '\n' {
			s.line++
			return nil
		}
	}
}

// require returns the next token, failing on end of input.
func (s *scanner) require(what string) (string, int, error) {
	tok, line, err := s.next()
	if err == io.EOF {
		return "", line, malformed(line, "unexpected end of input", "expected", what)
	}
	if err != nil {
		return "", line, errors.New("failed to read pixel grid").Wrap(err)
	}
	return tok, line, nil
}

func (s *scanner) int(what string) (int, error) {
	tok, line, err := s.require(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, malformed(line, "header field is not a number", "field", what, "token", tok)
	}
	return v, nil
}

// sample reads one channel value of pixel i and rescales it to 0-255.
func (s *scanner) sample(maxVal, i, total int) (uint8, error) {
	tok, line, err := s.next()
	if err == io.EOF {
		return 0, malformed(line, "fewer samples than the declared dimensions", "pixels_read", i, "pixels_declared", total)
	}
	if err != nil {
		return 0, errors.New("failed to read pixel grid").Wrap(err)
	}

	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, malformed(line, "sample is not a number", "token", tok)
	}
	if v < 0 || v > maxVal {
		return 0, malformed(line, "sample out of range", "token", tok, "max_value", maxVal)
	}
	if maxVal != 255 {
		v = (v*255 + maxVal/2) / maxVal
	}
	return uint8(v), nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
