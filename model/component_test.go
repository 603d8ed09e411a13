package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CraigKelly/logmix/rand"
)

func TestNormalLogProb(t *testing.T) {
	assert := assert.New(t)

	n, err := NewNormal(1.5, 2.0)
	assert.NoError(err)
	assert.Equal(1, n.Dim())

	cases := []float64{-3.0, 0.0, 1.5, 4.25}
	for _, x := range cases {
		z := (x - 1.5) / 2.0
		exp := -0.5*z*z - math.Log(2.0*math.Sqrt(2.0*math.Pi))
		assert.InDelta(exp, n.LogProb([]float64{x}), 1e-12)
	}
}

func TestNormalBad(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		mu    float64
		sigma float64
	}{
		{0.0, 0.0},
		{0.0, -1.0},
		{math.NaN(), 1.0},
		{0.0, math.NaN()},
	}

	for _, c := range cases {
		n, err := NewNormal(c.mu, c.sigma)
		assert.Nil(n)
		assert.Error(err)
	}
}

func TestExponentialLogProb(t *testing.T) {
	assert := assert.New(t)

	e, err := NewExponential(2.5)
	assert.NoError(err)
	assert.Equal(1, e.Dim())

	for _, x := range []float64{0.0, 0.5, 3.0} {
		exp := math.Log(2.5) - 2.5*x
		assert.InDelta(exp, e.LogProb([]float64{x}), 1e-12)
	}

	// Zero density below the support
	assert.True(math.IsInf(e.LogProb([]float64{-0.001}), -1))

	bad, err := NewExponential(0.0)
	assert.Nil(bad)
	assert.Error(err)
}

func TestIndepNormalLogProb(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIndepNormal([]float64{0.0, 2.0}, []float64{1.0, 0.5})
	assert.NoError(err)
	assert.Equal(2, g.Dim())

	// Independent dims: log-densities sum
	n1, _ := NewNormal(0.0, 1.0)
	n2, _ := NewNormal(2.0, 0.5)
	x := []float64{0.7, 1.9}
	exp := n1.LogProb(x[0:1]) + n2.LogProb(x[1:2])
	assert.InDelta(exp, g.LogProb(x), 1e-12)
}

func TestIndepNormalBad(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		mu    []float64
		sigma []float64
	}{
		{[]float64{}, []float64{}},
		{[]float64{0.0, 1.0}, []float64{1.0}},
		{[]float64{0.0}, []float64{0.0}},
		{[]float64{math.NaN()}, []float64{1.0}},
	}

	for _, c := range cases {
		g, err := NewIndepNormal(c.mu, c.sigma)
		assert.Nil(g)
		assert.Error(err)
	}
}

// Component sampling through our mt19937-backed source
func TestComponentRand(t *testing.T) {
	assert := assert.New(t)

	gen, err := rand.NewGenerator(42)
	assert.NoError(err)

	n, _ := NewNormal(10.0, 1.0)
	e, _ := NewExponential(1.0)
	g, _ := NewIndepNormal([]float64{-5.0, 5.0}, []float64{1.0, 1.0})

	// Nil target allocates the right size
	x := n.Rand(gen, nil)
	assert.Equal(1, len(x))

	x = g.Rand(gen, nil)
	assert.Equal(2, len(x))

	// Exponential support
	for i := 0; i < 100; i++ {
		x = e.Rand(gen, x[0:1])
		assert.True(x[0] >= 0.0)
	}

	// Sample mean should land near mu (sd of the mean is 1/sqrt(1000))
	const draws = 1000
	var tot float64
	for i := 0; i < draws; i++ {
		x = n.Rand(gen, x[0:1])
		tot += x[0]
	}
	assert.InDelta(10.0, tot/draws, 0.2)
}
