package model

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFieldReader(t *testing.T) {
	assert := assert.New(t)

	fr := NewFieldReader("  hello 42\n\t3.25  ")

	s, err := fr.Read()
	assert.NoError(err)
	assert.Equal("hello", s)

	i, err := fr.ReadInt()
	assert.NoError(err)
	assert.Equal(42, i)

	f, err := fr.ReadFloat()
	assert.NoError(err)
	assert.Equal(3.25, f)

	_, err = fr.Read()
	assert.Equal(io.EOF, err)
}

func TestReadObservations(t *testing.T) {
	assert := assert.New(t)

	data := []byte(`
# simulated sample data
1.0 2.0

3.5 -4.5
# trailing comment
0 1e2
`)

	xs, err := ReadObservations(data, 2)
	assert.NoError(err)
	assert.Equal([][]float64{
		{1.0, 2.0},
		{3.5, -4.5},
		{0.0, 100.0},
	}, xs)

	// Same data reads fine at dim 1 or 3 (6 fields, row-major)
	xs, err = ReadObservations(data, 1)
	assert.NoError(err)
	assert.Equal(6, len(xs))

	xs, err = ReadObservations(data, 3)
	assert.NoError(err)
	assert.Equal(2, len(xs))
}

func TestReadObservationsBad(t *testing.T) {
	assert := assert.New(t)

	// Invalid dim
	_, err := ReadObservations([]byte("1.0 2.0"), 0)
	assert.Error(err)

	// Comments only
	_, err = ReadObservations([]byte("# nothing here\n"), 1)
	assert.Error(err)

	// Trailing partial row
	_, err = ReadObservations([]byte("1.0 2.0 3.0"), 2)
	assert.Error(err)
	assert.Equal(ErrDimensionMismatch, errors.Cause(err))

	// Non-numeric token
	_, err = ReadObservations([]byte("1.0 oops"), 2)
	assert.Error(err)

	// NaN is rejected, not silently loaded
	_, err = ReadObservations([]byte("1.0 NaN"), 2)
	assert.Error(err)
	assert.Equal(ErrInvalidArgument, errors.Cause(err))
}
