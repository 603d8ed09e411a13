package model

import (
	"math"

	"github.com/pkg/errors"
)

// Sentinel causes for the failure modes of a mixture density evaluation.
// Callers that need to branch on the failure kind should compare with
// errors.Cause.
var (
	// ErrEmptyMixture indicates a mixture or reduction over zero components.
	ErrEmptyMixture = errors.New("mixture has no components")

	// ErrDimensionMismatch indicates input slices/observations whose lengths
	// do not agree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidArgument indicates a NaN was found in an input. NaN is never
	// silently propagated: it would poison the max-finding step of the
	// reduction and produce a wrong answer instead of a failure.
	ErrInvalidArgument = errors.New("invalid argument")
)

// LogSumExp computes log(sum(exp(terms))) with the max-shift stabilization:
// the maximum term m is subtracted before exponentiating, so every exp
// argument is <= 0 and the dominant term contributes exp(0) = 1. The result
// is exact up to floating point regardless of which term attains the max.
//
// The result is -Inf exactly when every term is -Inf (zero total density,
// which is a legal value and not an error). A single +Inf term makes the
// result +Inf. Any NaN term is an error.
func LogSumExp(terms []float64) (float64, error) {
	if len(terms) < 1 {
		return math.NaN(), errors.Wrap(ErrEmptyMixture, "log-sum-exp over 0 terms")
	}

	m := math.Inf(-1)
	for i, t := range terms {
		if math.IsNaN(t) {
			return math.NaN(), errors.Wrapf(ErrInvalidArgument, "term %d is NaN", i)
		}
		if t > m {
			m = t
		}
	}

	// All terms -Inf: return now so we never evaluate -Inf - -Inf below
	if math.IsInf(m, -1) {
		return math.Inf(-1), nil
	}

	// A +Inf term dominates everything: the shifted sum would be NaN
	if math.IsInf(m, 1) {
		return math.Inf(1), nil
	}

	var s float64
	for _, t := range terms {
		s += math.Exp(t - m)
	}

	return m + math.Log(s), nil
}

// LogDensityTerms computes the collapsed mixture log-density
// log(sum_k exp(mixLogWeights[k] + compLogProbs[k])) for one observation.
// mixLogWeights[k] is log pi_k and compLogProbs[k] is the observation's
// log-density under component k. Both slices must have the same length
// K >= 1 and contain no NaN. Pure function: no state, no side effects.
func LogDensityTerms(mixLogWeights []float64, compLogProbs []float64) (float64, error) {
	if len(mixLogWeights) != len(compLogProbs) {
		return math.NaN(), errors.Wrapf(ErrDimensionMismatch,
			"%d mixing log-weights != %d component log-probs",
			len(mixLogWeights), len(compLogProbs))
	}
	if len(mixLogWeights) < 1 {
		return math.NaN(), errors.Wrap(ErrEmptyMixture, "no mixture terms")
	}

	terms := make([]float64, len(mixLogWeights))
	for k, w := range mixLogWeights {
		terms[k] = w + compLogProbs[k]
	}

	return LogSumExp(terms)
}
