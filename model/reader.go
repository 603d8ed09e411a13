package model

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FieldReader is a simple whitespace-token reader for our text data files.
type FieldReader struct {
	Pos    int
	Fields []string
}

// NewFieldReader constructs a new field reader around the given data
func NewFieldReader(data string) *FieldReader {
	return &FieldReader{0, strings.Fields(data)}
}

// Read returns the next space-delimited field/token
func (fr *FieldReader) Read() (string, error) {
	if fr.Pos >= len(fr.Fields) {
		return "", io.EOF
	}
	p := fr.Pos
	fr.Pos++
	return fr.Fields[p], nil
}

// ReadInt reads the next token as an int
func (fr *FieldReader) ReadInt() (int, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	i, err := strconv.ParseInt(s, 10, 0)
	return int(i), err
}

// ReadFloat reads the next token as a float
func (fr *FieldReader) ReadFloat() (float64, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(s, 64)
}

// Preprocessor for observation files: drop lines that are blank or start
// with '#'. Returns the new buffer and the count of "real" lines found.
func obsPreprocess(data []byte) (string, int) {
	lines := strings.Split(string(data), "\n")

	newPos := 0
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if len(ln) < 1 || ln[0] == '#' {
			continue // Empty or comment: skip
		}

		lines[newPos] = ln
		newPos++
	}

	return strings.Join(lines[:newPos], "\n"), newPos
}

// ReadObservations parses a whitespace-delimited observation file into rows
// of the given dimensionality. The total field count must be a non-zero
// multiple of dim (no trailing partial rows), and NaN is rejected.
func ReadObservations(data []byte, dim int) ([][]float64, error) {
	if dim < 1 {
		return nil, errors.Errorf("Invalid observation dim %d", dim)
	}

	text, lineCount := obsPreprocess(data)
	if lineCount < 1 {
		return nil, errors.Errorf("No observation lines found")
	}

	fr := NewFieldReader(text)
	if len(fr.Fields)%dim != 0 {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"%d fields is not a multiple of dim %d", len(fr.Fields), dim)
	}

	n := len(fr.Fields) / dim
	xs := make([][]float64, n)

	for i := 0; i < n; i++ {
		xs[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			v, err := fr.ReadFloat()
			if err != nil {
				return nil, errors.Wrapf(err, "Could not read observation %d dim %d", i, j)
			}
			if math.IsNaN(v) {
				return nil, errors.Wrapf(ErrInvalidArgument, "observation %d dim %d is NaN", i, j)
			}
			xs[i][j] = v
		}
	}

	return xs, nil
}
