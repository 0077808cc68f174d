// Package likelihood provides observation likelihoods for Gaussian
// process models.
package likelihood

import (
	"math"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

const log2Pi = 1.8378770664093454835606594728112352797227949472755668

// Gaussian is the Gaussian observation likelihood
//
//	p(y | f) = N(y; f, variance)
//
// with a positive, trainable noise variance.
type Gaussian struct {
	variance *param.Param
}

// NewGaussian creates a Gaussian likelihood with unit noise variance.
func NewGaussian() *Gaussian {
	return &Gaussian{variance: param.NewPositive("likelihood.variance", 1)}
}

// Variance returns the noise variance.
func (l *Gaussian) Variance() float64 { return l.variance.Value(0) }

// SetVariance sets the noise variance. It must be positive.
func (l *Gaussian) SetVariance(v float64) error {
	if !(v > 0) {
		return errors.NewValidationError("likelihood.variance", "must be positive", v)
	}
	return l.variance.Set(0, v)
}

// Params implements param.Parameterized.
func (l *Gaussian) Params() []*param.Param {
	return []*param.Param{l.variance}
}

// LogDensity returns log N(y; mu, variance).
func (l *Gaussian) LogDensity(y, mu float64) float64 {
	v := l.variance.Value(0)
	d := y - mu
	return -0.5 * (log2Pi + math.Log(v) + d*d/v)
}

// VariationalExpectation returns E_{N(f; mu, s2)}[log N(y; f, variance)],
// the Gaussian closed form used by variational bounds:
//
//	log N(y; mu, variance) - s2 / (2 * variance)
func (l *Gaussian) VariationalExpectation(y, mu, s2 float64) float64 {
	return l.LogDensity(y, mu) - 0.5*s2/l.variance.Value(0)
}

// PredictMeanVar maps latent predictive moments to observation moments:
// the mean is unchanged and the noise variance is added.
func (l *Gaussian) PredictMeanVar(fmu, fvar float64) (ymu, yvar float64) {
	return fmu, fvar + l.variance.Value(0)
}
