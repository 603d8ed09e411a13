package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickComponent(t *testing.T) {
	assert := assert.New(t)

	cum := []float64{0.25, 0.75, 1.0}

	assert.Equal(0, pickComponent(cum, 0.0))
	assert.Equal(0, pickComponent(cum, 0.2499))
	assert.Equal(1, pickComponent(cum, 0.25))
	assert.Equal(1, pickComponent(cum, 0.6))
	assert.Equal(2, pickComponent(cum, 0.9))

	// u can reach the last cumulative value through rounding
	assert.Equal(2, pickComponent(cum, 1.0))
}
