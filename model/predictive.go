package model

import (
	"github.com/pkg/errors"
)

// PosteriorPredictive approximates the posterior-predictive log-density of
// each observation from S posterior parameter draws: for every (observation,
// draw) pair the K-axis mixture reduction runs independently, and the
// already log-summed per-draw values are then arithmetic-averaged over the
// draws. The average is never taken over raw probabilities.
func PosteriorPredictive(draws []*Mixture, xs [][]float64) ([]float64, error) {
	if len(draws) < 1 {
		return nil, errors.Errorf("No posterior draws supplied")
	}
	if len(xs) < 1 {
		return nil, errors.Errorf("No observations supplied")
	}

	dim := draws[0].Dim()
	for s, m := range draws {
		err := m.Check()
		if err != nil {
			return nil, errors.Wrapf(err, "Posterior draw %d is not valid", s)
		}
		if m.Dim() != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"draw %d (%s) has dim %d, draw 0 has dim %d", s, m.Name, m.Dim(), dim)
		}
	}

	out := make([]float64, len(xs))
	sCount := float64(len(draws))

	for s, m := range draws {
		lds, err := m.LogDensityBatch(xs)
		if err != nil {
			return nil, errors.Wrapf(err, "Posterior draw %d (%s)", s, m.Name)
		}
		for n, ld := range lds {
			out[n] += ld / sCount
		}
	}

	return out, nil
}
