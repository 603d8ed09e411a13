package model

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Component is a single mixture component: anything that can report the
// log-density of an observation and draw new observations. Implementations
// may assume x has exactly Dim() elements - the Mixture checks before
// dispatching.
type Component interface {
	// Dim is the observation dimensionality the component expects.
	Dim() int

	// LogProb returns the log-density of x under the component. May return
	// -Inf for zero-density points.
	LogProb(x []float64) float64

	// Rand draws one observation into x (allocated if nil) using src.
	Rand(src rand.Source, x []float64) []float64
}

// Normal is a scalar Gaussian component.
type Normal struct {
	dist distuv.Normal
}

// NewNormal creates a scalar Gaussian component with the given location and
// scale. Sigma must be positive.
func NewNormal(mu float64, sigma float64) (*Normal, error) {
	if math.IsNaN(mu) || math.IsNaN(sigma) {
		return nil, errors.Wrapf(ErrInvalidArgument, "Normal(mu=%f, sigma=%f)", mu, sigma)
	}
	if sigma <= 0 {
		return nil, errors.Errorf("Normal sigma %f must be > 0", sigma)
	}

	return &Normal{dist: distuv.Normal{Mu: mu, Sigma: sigma}}, nil
}

// Dim implements Component (scalar)
func (n *Normal) Dim() int { return 1 }

// LogProb implements Component
func (n *Normal) LogProb(x []float64) float64 {
	return n.dist.LogProb(x[0])
}

// Rand implements Component
func (n *Normal) Rand(src rand.Source, x []float64) []float64 {
	if x == nil {
		x = make([]float64, 1)
	}
	d := n.dist
	d.Src = src
	x[0] = d.Rand()
	return x
}

// Exponential is a scalar exponential component with zero density below 0.
type Exponential struct {
	dist distuv.Exponential
}

// NewExponential creates an exponential component. Rate must be positive.
func NewExponential(rate float64) (*Exponential, error) {
	if math.IsNaN(rate) {
		return nil, errors.Wrapf(ErrInvalidArgument, "Exponential(rate=%f)", rate)
	}
	if rate <= 0 {
		return nil, errors.Errorf("Exponential rate %f must be > 0", rate)
	}

	return &Exponential{dist: distuv.Exponential{Rate: rate}}, nil
}

// Dim implements Component (scalar)
func (e *Exponential) Dim() int { return 1 }

// LogProb implements Component
func (e *Exponential) LogProb(x []float64) float64 {
	return e.dist.LogProb(x[0])
}

// Rand implements Component
func (e *Exponential) Rand(src rand.Source, x []float64) []float64 {
	if x == nil {
		x = make([]float64, 1)
	}
	d := e.dist
	d.Src = src
	x[0] = d.Rand()
	return x
}

// IndepNormal is a multivariate Gaussian component whose dimensions are
// independent of one another (diagonal covariance).
type IndepNormal struct {
	dists []distuv.Normal
}

// NewIndepNormal creates an independent multivariate Gaussian from per-dim
// locations and scales. The slices must have equal, non-zero length and
// every sigma must be positive.
func NewIndepNormal(mu []float64, sigma []float64) (*IndepNormal, error) {
	if len(mu) != len(sigma) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d mu values != %d sigma values", len(mu), len(sigma))
	}
	if len(mu) < 1 {
		return nil, errors.Errorf("IndepNormal requires at least 1 dimension")
	}

	dists := make([]distuv.Normal, len(mu))
	for i, m := range mu {
		if math.IsNaN(m) || math.IsNaN(sigma[i]) {
			return nil, errors.Wrapf(ErrInvalidArgument, "IndepNormal dim %d (mu=%f, sigma=%f)", i, m, sigma[i])
		}
		if sigma[i] <= 0 {
			return nil, errors.Errorf("IndepNormal sigma %f must be > 0 (dim %d)", sigma[i], i)
		}
		dists[i] = distuv.Normal{Mu: m, Sigma: sigma[i]}
	}

	return &IndepNormal{dists: dists}, nil
}

// Dim implements Component
func (g *IndepNormal) Dim() int { return len(g.dists) }

// LogProb implements Component - independent dims, so log-densities sum
func (g *IndepNormal) LogProb(x []float64) float64 {
	var ll float64
	for i, d := range g.dists {
		ll += d.LogProb(x[i])
	}
	return ll
}

// Rand implements Component
func (g *IndepNormal) Rand(src rand.Source, x []float64) []float64 {
	if x == nil {
		x = make([]float64, len(g.dists))
	}
	for i, d := range g.dists {
		d.Src = src
		x[i] = d.Rand()
	}
	return x
}
