package model

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// normPDF is the scalar Gaussian density, computed directly for reference
func normPDF(mu float64, sigma float64, x float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5*z*z) / (sigma * math.Sqrt(2.0*math.Pi))
}

func testMixture() *Mixture {
	n1, e1 := NewNormal(0.0, 1.0)
	n2, e2 := NewNormal(4.0, 2.0)
	if e1 != nil || e2 != nil {
		panic(fmt.Sprintf("%v %v", e1, e2))
	}

	m, err := NewMixture("test", []float64{0.4, 0.6}, []Component{n1, n2})
	if err != nil {
		panic(fmt.Sprintf("%v", err))
	}
	return m
}

func TestMixtureNew(t *testing.T) {
	assert := assert.New(t)

	n1, _ := NewNormal(0.0, 1.0)
	n2, _ := NewNormal(4.0, 2.0)

	// Unnormalized weights are normalized
	m, err := NewMixture("unnorm", []float64{2.0, 3.0}, []Component{n1, n2})
	assert.NoError(err)
	assert.InDelta(math.Log(0.4), m.LogWeights[0], 1e-12)
	assert.InDelta(math.Log(0.6), m.LogWeights[1], 1e-12)
	assert.Equal(2, m.K())
	assert.Equal(1, m.Dim())
	assert.NoError(m.Check())

	// Zero weight maps to a -Inf log-weight and still checks out
	m, err = NewMixture("zero", []float64{0.0, 1.0}, []Component{n1, n2})
	assert.NoError(err)
	assert.True(math.IsInf(m.LogWeights[0], -1))
	assert.NoError(m.Check())
}

func TestMixtureNewBad(t *testing.T) {
	assert := assert.New(t)

	n1, _ := NewNormal(0.0, 1.0)
	n2, _ := NewNormal(4.0, 2.0)

	cases := []struct {
		weights []float64
		comps   []Component
	}{
		{[]float64{}, []Component{}},                        // empty
		{[]float64{0.4, 0.6}, []Component{n1}},              // count mismatch
		{[]float64{-0.4, 1.4}, []Component{n1, n2}},         // negative
		{[]float64{math.NaN(), 1.0}, []Component{n1, n2}},   // NaN
		{[]float64{0.0, 0.0}, []Component{n1, n2}},          // nothing to normalize
	}

	for _, c := range cases {
		m, err := NewMixture("bad", c.weights, c.comps)
		assert.Nil(m)
		assert.Error(err)
	}
}

func TestMixtureNewLogWeights(t *testing.T) {
	assert := assert.New(t)

	n1, _ := NewNormal(0.0, 1.0)
	n2, _ := NewNormal(4.0, 2.0)

	m, err := NewMixtureLogWeights("logw", []float64{math.Log(0.5), math.Log(0.5)}, []Component{n1, n2})
	assert.NoError(err)
	assert.NoError(m.Check())
	assert.InDelta(0.5, m.Weights()[0], 1e-12)

	// Log-weights must exponentiate-sum to 1
	m, err = NewMixtureLogWeights("badsum", []float64{math.Log(0.5), math.Log(0.4)}, []Component{n1, n2})
	assert.Nil(m)
	assert.Error(err)

	m, err = NewMixtureLogWeights("nan", []float64{math.NaN(), 0.0}, []Component{n1, n2})
	assert.Nil(m)
	assert.Error(err)
	assert.Equal(ErrInvalidArgument, errors.Cause(err))

	m, err = NewMixtureLogWeights("posinf", []float64{math.Inf(1), 0.0}, []Component{n1, n2})
	assert.Nil(m)
	assert.Error(err)
}

func TestMixtureCheck(t *testing.T) {
	assert := assert.New(t)

	n1, _ := NewNormal(0.0, 1.0)
	g2, _ := NewIndepNormal([]float64{0.0, 1.0}, []float64{1.0, 1.0})

	// Built by hand so the constructors can't save us
	cases := []*Mixture{
		{Name: "empty"},
		{Name: "count", LogWeights: []float64{0.0}, Comps: []Component{n1, n1}},
		{Name: "dims", LogWeights: []float64{math.Log(0.5), math.Log(0.5)}, Comps: []Component{n1, g2}},
		{Name: "sum", LogWeights: []float64{math.Log(0.5), math.Log(0.4)}, Comps: []Component{n1, n1}},
		{Name: "nan", LogWeights: []float64{math.NaN(), 0.0}, Comps: []Component{n1, n1}},
	}

	for _, m := range cases {
		assert.Error(m.Check(), "mixture %s should fail Check", m.Name)
	}
}

func TestMixtureLogDensity(t *testing.T) {
	assert := assert.New(t)

	m := testMixture()

	x := 1.0
	exp := math.Log(0.4*normPDF(0.0, 1.0, x) + 0.6*normPDF(4.0, 2.0, x))

	act, err := m.LogDensity([]float64{x})
	assert.NoError(err)
	assert.InDelta(exp, act, 1e-12)
}

func TestMixtureLogDensityBad(t *testing.T) {
	assert := assert.New(t)

	m := testMixture()

	// Wrong observation dims
	_, err := m.LogDensity([]float64{1.0, 2.0})
	assert.Error(err)
	assert.Equal(ErrDimensionMismatch, errors.Cause(err))

	// NaN observation
	_, err = m.LogDensity([]float64{math.NaN()})
	assert.Error(err)
	assert.Equal(ErrInvalidArgument, errors.Cause(err))
}

// Observations with zero density under every component yield -Inf, not an error
func TestMixtureZeroDensity(t *testing.T) {
	assert := assert.New(t)

	e1, _ := NewExponential(1.0)
	e2, _ := NewExponential(2.5)
	m, err := NewMixture("exp", []float64{0.5, 0.5}, []Component{e1, e2})
	assert.NoError(err)

	act, err := m.LogDensity([]float64{-1.0})
	assert.NoError(err)
	assert.True(math.IsInf(act, -1))

	// But memberships for such a point are undefined
	_, err = m.Responsibilities([]float64{-1.0}, nil)
	assert.Error(err)
}

func TestMixtureBatch(t *testing.T) {
	assert := assert.New(t)

	m := testMixture()
	xs := [][]float64{{-2.0}, {0.0}, {1.5}, {4.0}, {10.0}}

	batch, err := m.LogDensityBatch(xs)
	assert.NoError(err)
	assert.Equal(len(xs), len(batch))

	// The K-axis reduction must be independent per observation
	for n, x := range xs {
		one, err := m.LogDensity(x)
		assert.NoError(err)
		assert.Equal(one, batch[n])
	}

	// A bad observation in the middle fails the whole batch
	_, err = m.LogDensityBatch([][]float64{{0.0}, {math.NaN()}, {1.0}})
	assert.Error(err)
	assert.Equal(ErrInvalidArgument, errors.Cause(err))
}

func TestMixtureResponsibilities(t *testing.T) {
	assert := assert.New(t)

	m := testMixture()

	r, err := m.Responsibilities([]float64{1.0}, nil)
	assert.NoError(err)
	assert.Equal(2, len(r))

	var tot float64
	for _, rv := range r {
		assert.True(rv >= 0.0 && rv <= 1.0)
		tot += rv
	}
	assert.InDelta(1.0, tot, 1e-12)

	// Direct Bayes computation for reference
	p1 := 0.4 * normPDF(0.0, 1.0, 1.0)
	p2 := 0.6 * normPDF(4.0, 2.0, 1.0)
	assert.InDelta(p1/(p1+p2), r[0], 1e-12)
	assert.InDelta(p2/(p1+p2), r[1], 1e-12)

	// Reuse of a right-sized slice
	r2, err := m.Responsibilities([]float64{1.0}, r)
	assert.NoError(err)
	assert.Same(&r[0], &r2[0])
}

func TestMixtureClone(t *testing.T) {
	assert := assert.New(t)

	m := testMixture()
	cp := m.Clone()

	assert.Equal(m.Name, cp.Name)
	assert.Equal(m.LogWeights, cp.LogWeights)
	assert.NoError(cp.Check())

	cp.LogWeights[0] = 0.0
	assert.NotEqual(m.LogWeights[0], cp.LogWeights[0])
}
