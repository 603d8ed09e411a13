package model

import (
	"math"

	"github.com/pkg/errors"
)

// WeightDivergence collects the divergence measures we use to compare two
// mixing-weight vectors over the same K components (e.g. a model's weights
// against the mean responsibilities observed on a data set, or a fitted
// draw against a reference).
type WeightDivergence struct {
	MeanAbsErr float64
	MaxAbsErr  float64
	Hellinger  float64
	JSDiverge  float64
}

// normWeights normalizes a non-negative weight vector to sum to 1 in a fresh
// slice. A (near) zero total is floored so the comparison degrades instead
// of dividing by zero.
func normWeights(w []float64) []float64 {
	const eps = 1e-12

	var tot float64
	for _, v := range w {
		tot += v
	}
	if tot < eps {
		tot = eps
	}

	normed := make([]float64, len(w))
	for i, v := range w {
		normed[i] = v / tot
	}
	return normed
}

// NewWeightDivergence returns the divergence suite for two weight vectors.
// Both vectors must have the same length K >= 1 and non-negative entries;
// they need not be normalized on input.
func NewWeightDivergence(p []float64, q []float64) (*WeightDivergence, error) {
	if len(p) != len(q) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d weights != %d weights", len(p), len(q))
	}
	if len(p) < 1 {
		return nil, errors.Errorf("No weights to compare")
	}

	for i, v := range p {
		if math.IsNaN(v) || math.IsNaN(q[i]) {
			return nil, errors.Wrapf(ErrInvalidArgument, "weight %d is NaN", i)
		}
		if v < 0 || q[i] < 0 {
			return nil, errors.Errorf("Weight %d is negative", i)
		}
	}

	pn := normWeights(p)
	qn := normWeights(q)

	wd := &WeightDivergence{}

	var hellSum float64
	for i, pv := range pn {
		qv := qn[i]

		d := math.Abs(pv - qv)
		wd.MeanAbsErr += d
		wd.MaxAbsErr = math.Max(d, wd.MaxAbsErr)

		hellSum += math.Pow(math.Sqrt(pv)-math.Sqrt(qv), 2)
	}
	wd.MeanAbsErr /= float64(len(pn))
	wd.Hellinger = math.Sqrt(hellSum) / math.Sqrt2
	wd.JSDiverge = jsDivergence(pn, qn)

	return wd, nil
}

// klDivergence is strictly a subroutine for the JS divergence: no error
// checking, both slices assumed normalized. Zero entries in p contribute
// nothing (lim p->0 of p*log(p/q) = 0).
// klDivergence(P, Q) <==> D_{KL}(P || Q)
func klDivergence(p []float64, q []float64) float64 {
	diverge := float64(0.0)
	for i, pv := range p {
		if pv <= 0 {
			continue
		}
		diverge += pv * math.Log2(pv/q[i])
	}

	return diverge
}

// jsDivergence is the Jensen-Shannon divergence, a symmetric generalization
// of the KL divergence. Both slices are assumed normalized.
func jsDivergence(p []float64, q []float64) float64 {
	mid := make([]float64, len(p))
	for i, pv := range p {
		mid[i] = (pv + q[i]) * 0.5
	}

	return 0.5 * (klDivergence(p, mid) + klDivergence(q, mid))
}
