package gp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/pkg/errors"
	"github.com/YuminosukeSato/scigp/preprocessing"
)

// GPR is exact Gaussian process regression. The Gaussian noise is
// folded into the covariance, so the log marginal likelihood and the
// predictive distribution are available in closed form.
type GPR struct {
	base

	normalizeY bool
	scaler     *preprocessing.StandardScaler
}

// NewGPR returns an exact GP regression model with the given kernel.
func NewGPR(kern kernel.Kernel, opts ...Option) *GPR {
	cfg := newModelConfig(opts)
	return &GPR{
		base:       newBase(kern, cfg),
		normalizeY: cfg.normalizeY,
	}
}

// Params returns the trainable parameters: kernel, mean function, and
// likelihood variance.
func (g *GPR) Params() []*param.Param { return g.commonParams() }

// Fit records the training data and maximizes the log marginal
// likelihood over the free parameters.
func (g *GPR) Fit(X, Y mat.Matrix, opts ...FitOption) error {
	if err := g.setData("GPR.Fit", X, Y); err != nil {
		return err
	}
	if g.normalizeY {
		g.scaler = preprocessing.NewStandardScalerDefault()
		if err := g.scaler.Fit(g.Y); err != nil {
			return err
		}
		scaled, err := g.scaler.Transform(g.Y)
		if err != nil {
			return err
		}
		g.Y = scaled
	}
	if err := fitModel("GPR", g, newFitConfig(opts)); err != nil {
		return err
	}
	g.SetFitted()
	return nil
}

// factor returns the Cholesky factorization of K(X, X) + noise*I.
func (g *GPR) factor(op string) (*mat.Cholesky, error) {
	K := kernSym(g.kern, g.X)
	return cholFactor(op, K, g.lik.Variance())
}

// LogMarginalLikelihood returns the exact log marginal likelihood of
// the training data under the current parameters. Output columns are
// treated as independent draws sharing the kernel.
func (g *GPR) LogMarginalLikelihood() (float64, error) {
	ch, err := g.factor("GPR.LogMarginalLikelihood")
	if err != nil {
		return 0, err
	}
	resid := g.residuals()

	var alpha mat.Dense
	if err := ch.SolveTo(&alpha, resid); err != nil {
		return 0, errors.NewModelError("GPR.LogMarginalLikelihood", "solve failed", err)
	}

	var quad float64
	for j := 0; j < g.p; j++ {
		for i := 0; i < g.n; i++ {
			quad += resid.At(i, j) * alpha.At(i, j)
		}
	}
	np := float64(g.n * g.p)
	lml := -0.5*quad - 0.5*float64(g.p)*ch.LogDet() - 0.5*np*log2Pi
	return lml, nil
}

// Objective returns the negative log marginal likelihood, the quantity
// minimized by Fit.
func (g *GPR) Objective() (float64, error) {
	lml, err := g.LogMarginalLikelihood()
	if err != nil {
		return 0, err
	}
	return -lml, nil
}

// PredictF returns the posterior mean and variance of the latent
// function at the rows of X. Both are s x p, with the variance shared
// across output columns.
func (g *GPR) PredictF(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	s, err := g.checkPredict("GPR", "PredictF", X)
	if err != nil {
		return nil, nil, err
	}
	ch, err := g.factor("GPR.PredictF")
	if err != nil {
		return nil, nil, err
	}
	resid := g.residuals()

	var alpha mat.Dense
	if err := ch.SolveTo(&alpha, resid); err != nil {
		return nil, nil, errors.NewModelError("GPR.PredictF", "solve failed", err)
	}

	Ks := kernCross(g.kern, g.X, X) // n x s
	var v mat.Dense
	if err := ch.SolveTo(&v, Ks); err != nil {
		return nil, nil, errors.NewModelError("GPR.PredictF", "solve failed", err)
	}

	mean := mat.NewDense(s, g.p, nil)
	mean.Mul(Ks.T(), &alpha)
	ms := g.meanVec(X)
	for j := 0; j < s; j++ {
		for k := 0; k < g.p; k++ {
			mean.Set(j, k, mean.At(j, k)+ms[j])
		}
	}

	kss := kernDiag(g.kern, X)
	variance := mat.NewDense(s, g.p, nil)
	for j := 0; j < s; j++ {
		fv := kss[j]
		for i := 0; i < g.n; i++ {
			fv -= Ks.At(i, j) * v.At(i, j)
		}
		for k := 0; k < g.p; k++ {
			variance.Set(j, k, fv)
		}
	}

	g.denormalize(mean, variance)
	return mean, variance, nil
}

// PredictY returns the predictive mean and variance of the noisy
// observations at the rows of X.
func (g *GPR) PredictY(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	mean, variance, err := g.PredictF(X)
	if err != nil {
		return nil, nil, err
	}
	noise := g.lik.Variance()
	if g.scaler != nil {
		// The likelihood operates on standardized targets.
		r, c := variance.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				variance.Set(i, j, variance.At(i, j)+noise*g.scaler.Scale[j]*g.scaler.Scale[j])
			}
		}
		return mean, variance, nil
	}
	variance.Apply(func(_, _ int, v float64) float64 { return v + noise }, variance)
	return mean, variance, nil
}

// denormalize maps predictions back to the original target units when
// the targets were standardized at fit time.
func (g *GPR) denormalize(mean, variance *mat.Dense) {
	if g.scaler == nil {
		return
	}
	r, c := mean.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sc := g.scaler.Scale[j]
			mean.Set(i, j, mean.At(i, j)*sc+g.scaler.Mean[j])
			variance.Set(i, j, variance.At(i, j)*sc*sc)
		}
	}
}
