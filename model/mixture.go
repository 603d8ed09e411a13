package model

import (
	"math"

	"github.com/pkg/errors"
)

// Tolerance used when checking that mixing weights form a distribution
const weightEPS = 1e-8

// Mixture represents a finite mixture distribution: K mixing weights (held
// in log-space) over K component distributions, all sharing one observation
// dimensionality. A Mixture is built once per model definition and treated
// as immutable afterward; evaluation calls allocate only transient state.
type Mixture struct {
	Name       string      // Model/draw name for reporting
	LogWeights []float64   // log pi_k - always log-space, entries may be -Inf
	Comps      []Component // Component distributions: len must equal len(LogWeights)
}

// NewMixture creates a mixture from probability-space weights. The weights
// are normalized to sum to 1 (so unnormalized positive weights are fine) and
// then moved to log-space with the convention log(0) = -Inf. Negative or NaN
// weights are rejected.
func NewMixture(name string, weights []float64, comps []Component) (*Mixture, error) {
	if len(weights) != len(comps) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d weights != %d components", len(weights), len(comps))
	}
	if len(weights) < 1 {
		return nil, errors.Wrapf(ErrEmptyMixture, "mixture %s", name)
	}

	var tot float64
	for k, w := range weights {
		if math.IsNaN(w) {
			return nil, errors.Wrapf(ErrInvalidArgument, "weight %d is NaN", k)
		}
		if w < 0 {
			return nil, errors.Errorf("Weight %d is negative (%f)", k, w)
		}
		tot += w
	}
	if tot < weightEPS {
		return nil, errors.Errorf("Mixture %s weights sum to %f - nothing to normalize", name, tot)
	}

	lw := make([]float64, len(weights))
	for k, w := range weights {
		lw[k] = math.Log(w / tot) // log(0) = -Inf is allowed
	}

	m := &Mixture{
		Name:       name,
		LogWeights: lw,
		Comps:      comps,
	}

	err := m.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "New mixture %s is not valid", name)
	}

	return m, nil
}

// NewMixtureLogWeights creates a mixture from weights already in log-space
// (e.g. from a Dirichlet-distributed latent). The weights must exponentiate
// and sum to 1 within tolerance; -Inf entries (zero weight) are allowed.
func NewMixtureLogWeights(name string, logWeights []float64, comps []Component) (*Mixture, error) {
	if len(logWeights) != len(comps) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d log-weights != %d components", len(logWeights), len(comps))
	}
	if len(logWeights) < 1 {
		return nil, errors.Wrapf(ErrEmptyMixture, "mixture %s", name)
	}

	lw := make([]float64, len(logWeights))
	for k, w := range logWeights {
		if math.IsNaN(w) {
			return nil, errors.Wrapf(ErrInvalidArgument, "log-weight %d is NaN", k)
		}
		if math.IsInf(w, 1) {
			return nil, errors.Errorf("Log-weight %d is +Inf", k)
		}
		lw[k] = w
	}

	m := &Mixture{
		Name:       name,
		LogWeights: lw,
		Comps:      comps,
	}

	err := m.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "New mixture %s is not valid", name)
	}

	return m, nil
}

// K is the component count of the mixture
func (m *Mixture) K() int {
	return len(m.Comps)
}

// Dim is the observation dimensionality shared by all components
func (m *Mixture) Dim() int {
	if len(m.Comps) < 1 {
		return 0
	}
	return m.Comps[0].Dim()
}

// Check returns an error if any problem is found
func (m *Mixture) Check() error {
	if len(m.Comps) < 1 {
		return errors.Wrapf(ErrEmptyMixture, "mixture %s", m.Name)
	}
	if len(m.LogWeights) != len(m.Comps) {
		return errors.Wrapf(ErrDimensionMismatch,
			"mixture %s has %d log-weights for %d components",
			m.Name, len(m.LogWeights), len(m.Comps))
	}

	dim := m.Comps[0].Dim()
	for k, c := range m.Comps {
		if c.Dim() != dim {
			return errors.Errorf("Mixture %s component %d has dim %d != %d", m.Name, k, c.Dim(), dim)
		}
	}

	var tot float64
	for k, w := range m.LogWeights {
		if math.IsNaN(w) {
			return errors.Wrapf(ErrInvalidArgument, "mixture %s log-weight %d is NaN", m.Name, k)
		}
		tot += math.Exp(w)
	}
	if math.Abs(tot-1.0) >= weightEPS {
		return errors.Errorf("Mixture %s weights sum to %f (not 1)", m.Name, tot)
	}

	return nil
}

// Weights returns the mixing weights in probability space (freshly allocated)
func (m *Mixture) Weights() []float64 {
	w := make([]float64, len(m.LogWeights))
	for k, lw := range m.LogWeights {
		w[k] = math.Exp(lw)
	}
	return w
}

// Clone returns a deep copy of the weight state. Components are immutable
// parameter bundles, so they are shared.
func (m *Mixture) Clone() *Mixture {
	cp := &Mixture{
		Name:       m.Name,
		LogWeights: make([]float64, len(m.LogWeights)),
		Comps:      make([]Component, len(m.Comps)),
	}
	copy(cp.LogWeights, m.LogWeights)
	copy(cp.Comps, m.Comps)
	return cp
}

// terms writes log-weight + component log-prob per component into dst, which
// must have length K. Fails fast on a NaN observation or a component that
// returns NaN (a NaN from a collaborator is rejected, never reduced).
func (m *Mixture) terms(x []float64, dst []float64) error {
	if len(x) != m.Dim() {
		return errors.Wrapf(ErrDimensionMismatch, "observation has %d dims, mixture %s expects %d", len(x), m.Name, m.Dim())
	}
	for i, xv := range x {
		if math.IsNaN(xv) {
			return errors.Wrapf(ErrInvalidArgument, "observation dim %d is NaN", i)
		}
	}

	for k, c := range m.Comps {
		lp := c.LogProb(x)
		if math.IsNaN(lp) {
			return errors.Wrapf(ErrInvalidArgument, "component %d log-prob is NaN", k)
		}
		dst[k] = m.LogWeights[k] + lp

		// -Inf weight on a +Inf log-prob has no meaningful sum
		if math.IsNaN(dst[k]) {
			return errors.Wrapf(ErrInvalidArgument, "component %d term is NaN (log-weight %f, log-prob %f)", k, m.LogWeights[k], lp)
		}
	}

	return nil
}

// LogDensity computes the marginal log-density of one observation under the
// mixture with the component-assignment latent summed out. The result is
// -Inf only when the observation has zero density under every component.
func (m *Mixture) LogDensity(x []float64) (float64, error) {
	err := m.Check()
	if err != nil {
		return math.NaN(), err
	}

	terms := make([]float64, m.K())
	err = m.terms(x, terms)
	if err != nil {
		return math.NaN(), err
	}

	return LogSumExp(terms)
}

// LogDensityBatch computes LogDensity independently for every observation.
// The K-axis reduction is applied per observation and never collapses the
// batch axis.
func (m *Mixture) LogDensityBatch(xs [][]float64) ([]float64, error) {
	err := m.Check()
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(xs))
	terms := make([]float64, m.K())

	for n, x := range xs {
		err = m.terms(x, terms)
		if err != nil {
			return nil, errors.Wrapf(err, "Observation %d", n)
		}

		out[n], err = LogSumExp(terms)
		if err != nil {
			return nil, errors.Wrapf(err, "Observation %d", n)
		}
	}

	return out, nil
}

// Responsibilities computes the posterior component memberships
// P(z=k | x) for one observation, reusing r if it has length K. The same
// shifted terms as LogDensity keep the normalization stable. An observation
// with zero density under every component has no defined memberships and is
// an error.
func (m *Mixture) Responsibilities(x []float64, r []float64) ([]float64, error) {
	err := m.Check()
	if err != nil {
		return nil, err
	}

	if len(r) != m.K() {
		r = make([]float64, m.K())
	}

	terms := make([]float64, m.K())
	err = m.terms(x, terms)
	if err != nil {
		return nil, err
	}

	ld, err := LogSumExp(terms)
	if err != nil {
		return nil, err
	}
	if math.IsInf(ld, -1) {
		return nil, errors.Errorf("Mixture %s has zero density at observation - memberships undefined", m.Name)
	}

	for k, t := range terms {
		r[k] = math.Exp(t - ld)
	}

	return r, nil
}
