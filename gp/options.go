package gp

import (
	"github.com/YuminosukeSato/scigp/likelihood"
	"github.com/YuminosukeSato/scigp/meanfn"
)

// modelConfig collects construction-time settings shared by the model
// constructors.
type modelConfig struct {
	mean       meanfn.MeanFunction
	lik        *likelihood.Gaussian
	whiten     bool
	qDiag      bool
	normalizeY bool
}

func newModelConfig(opts []Option) *modelConfig {
	cfg := &modelConfig{
		mean: meanfn.NewZero(),
		lik:  likelihood.NewGaussian(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a model at construction time.
type Option func(*modelConfig)

// WithMean sets the mean function. The default is Zero.
func WithMean(m meanfn.MeanFunction) Option {
	return func(cfg *modelConfig) {
		cfg.mean = m
	}
}

// WithLikelihood sets the Gaussian likelihood instance, e.g. to share
// or pre-set its noise variance.
func WithLikelihood(l *likelihood.Gaussian) Option {
	return func(cfg *modelConfig) {
		cfg.lik = l
	}
}

// WithWhitening enables the whitened parameterization of the inducing
// variables. Only meaningful for SVGP.
func WithWhitening(whiten bool) Option {
	return func(cfg *modelConfig) {
		cfg.whiten = whiten
	}
}

// WithDiagonalPosterior restricts the variational posterior covariance
// to a diagonal. Only meaningful for SVGP.
func WithDiagonalPosterior(diag bool) Option {
	return func(cfg *modelConfig) {
		cfg.qDiag = diag
	}
}

// WithNormalizeY standardizes the targets before fitting and
// de-standardizes predictions. Only meaningful for GPR.
func WithNormalizeY() Option {
	return func(cfg *modelConfig) {
		cfg.normalizeY = true
	}
}

// fitConfig collects per-Fit settings.
type fitConfig struct {
	maxIter int
	display bool
	gradTol float64
}

func newFitConfig(opts []FitOption) *fitConfig {
	cfg := &fitConfig{
		maxIter: 1000,
		gradTol: 1e-6,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// FitOption configures a single Fit call.
type FitOption func(*fitConfig)

// WithMaxIter bounds the number of optimizer iterations. The default
// is 1000; zero or a negative value skips optimization so the model
// can be evaluated at its initial parameters. Reaching the bound
// raises a ConvergenceWarning, not an error.
func WithMaxIter(n int) FitOption {
	return func(cfg *fitConfig) {
		cfg.maxIter = n
	}
}

// WithDisplay enables progress logging during optimization; it is off
// by default.
func WithDisplay(display bool) FitOption {
	return func(cfg *fitConfig) {
		cfg.display = display
	}
}

// WithGradientThreshold sets the gradient infinity-norm below which
// optimization stops early. The default is 1e-6.
func WithGradientThreshold(tol float64) FitOption {
	return func(cfg *fitConfig) {
		cfg.gradTol = tol
	}
}
