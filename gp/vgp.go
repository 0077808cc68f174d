package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/likelihood"
)

// VGP is variational Gaussian process regression with the variational
// distribution placed directly at the training inputs. The posterior
// over the whitened process values v, with f = m(X) + L v and
// L = chol(Kxx), is a full Gaussian N(qMu, qSqrt qSqrt^T) per output
// column. With a Gaussian likelihood the optimum recovers the exact
// GPR posterior.
type VGP struct {
	base

	// qMu holds n*p values, one block of n per output column.
	qMu *param.Param
	// qSqrt holds p packed lower triangles of size n(n+1)/2 each.
	qSqrt *param.Param
}

// NewVGP returns a variational GP regression model with the given
// kernel. The variational parameters are allocated when Fit sees the
// data.
func NewVGP(kern kernel.Kernel, opts ...Option) *VGP {
	cfg := newModelConfig(opts)
	return &VGP{base: newBase(kern, cfg)}
}

// Params returns kernel, mean, likelihood, and variational parameters.
func (g *VGP) Params() []*param.Param {
	ps := g.commonParams()
	if g.qMu != nil {
		ps = append(ps, g.qMu, g.qSqrt)
	}
	return ps
}

// Fit records the training data and maximizes the evidence lower
// bound. The variational distribution starts at N(0, I) on the first
// Fit; a later Fit on data of the same shape keeps the existing
// distribution and its Fixed flags.
func (g *VGP) Fit(X, Y mat.Matrix, opts ...FitOption) error {
	if err := g.setData("VGP.Fit", X, Y); err != nil {
		return err
	}

	if g.qMu == nil || g.qMu.Len() != g.n*g.p {
		g.qMu = param.New("vgp.q_mu", make([]float64, g.n*g.p)...)
		sq := make([]float64, 0, g.p*triSize(g.n))
		for j := 0; j < g.p; j++ {
			sq = append(sq, identityTriPacked(g.n)...)
		}
		g.qSqrt = param.New("vgp.q_sqrt", sq...)
	}

	if err := fitModel("VGP", g, newFitConfig(opts)); err != nil {
		return err
	}
	g.SetFitted()
	return nil
}

// ELBO returns the evidence lower bound on the log marginal likelihood
// under the current parameters.
func (g *VGP) ELBO() (float64, error) {
	ch, err := cholFactor("VGP.ELBO", kernSym(g.kern, g.X), defaultJitter)
	if err != nil {
		return 0, err
	}
	L := lowerFromChol(ch)
	mx := g.meanVec(g.X)

	qMu := g.qMu.Values(nil)
	qSq := g.qSqrt.Values(nil)
	ts := triSize(g.n)

	var bound float64
	sq := mat.NewDense(g.n, g.n, nil)
	var a mat.Dense
	for j := 0; j < g.p; j++ {
		muBlock := qMu[j*g.n : (j+1)*g.n]
		fillLowerTri(sq, qSq[j*ts:(j+1)*ts], g.n)

		// Marginals of f = m(X) + L v, v ~ N(muBlock, sq sq^T).
		a.Mul(L, sq)
		for i := 0; i < g.n; i++ {
			fm := mx[i]
			for k := 0; k <= i; k++ {
				fm += L.At(i, k) * muBlock[k]
			}
			var fv float64
			for k := 0; k < g.n; k++ {
				v := a.At(i, k)
				fv += v * v
			}
			bound += g.lik.VariationalExpectation(g.Y.At(i, j), fm, fv)
		}

		bound -= klWhitened(muBlock, sq)
	}
	return bound, nil
}

// Objective returns the negative evidence lower bound.
func (g *VGP) Objective() (float64, error) {
	b, err := g.ELBO()
	if err != nil {
		return 0, err
	}
	return -b, nil
}

// klWhitened returns KL(N(mu, sq sq^T) || N(0, I)) for a full
// lower-triangular sq.
func klWhitened(mu []float64, sq *mat.Dense) float64 {
	n, _ := sq.Dims()
	kl := -0.5 * float64(n)
	for _, v := range mu {
		kl += 0.5 * v * v
	}
	for i := 0; i < n; i++ {
		kl -= math.Log(math.Abs(sq.At(i, i)))
		for k := 0; k <= i; k++ {
			v := sq.At(i, k)
			kl += 0.5 * v * v
		}
	}
	return kl
}

// PredictF returns the posterior mean and variance of the latent
// function at the rows of X.
func (g *VGP) PredictF(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	s, err := g.checkPredict("VGP", "PredictF", X)
	if err != nil {
		return nil, nil, err
	}
	ch, err := cholFactor("VGP.PredictF", kernSym(g.kern, g.X), defaultJitter)
	if err != nil {
		return nil, nil, err
	}
	L := lowerFromChol(ch)
	Kxs := kernCross(g.kern, g.X, X)

	// A = L^-1 Kxs, the whitened cross-covariance.
	A, err := solveDense("VGP.PredictF", L, Kxs)
	if err != nil {
		return nil, nil, err
	}

	kss := kernDiag(g.kern, X)
	ms := g.meanVec(X)
	baseVar := make([]float64, s)
	colSumSq(A, baseVar)

	qMu := g.qMu.Values(nil)
	qSq := g.qSqrt.Values(nil)
	ts := triSize(g.n)

	mean := mat.NewDense(s, g.p, nil)
	variance := mat.NewDense(s, g.p, nil)
	sq := mat.NewDense(g.n, g.n, nil)
	var proj mat.Dense
	projVar := make([]float64, s)
	for j := 0; j < g.p; j++ {
		muBlock := qMu[j*g.n : (j+1)*g.n]
		fillLowerTri(sq, qSq[j*ts:(j+1)*ts], g.n)

		proj.Mul(sq.T(), A)
		colSumSq(&proj, projVar)
		for t := 0; t < s; t++ {
			var fm float64
			for i := 0; i < g.n; i++ {
				fm += A.At(i, t) * muBlock[i]
			}
			mean.Set(t, j, ms[t]+fm)
			variance.Set(t, j, kss[t]-baseVar[t]+projVar[t])
		}
	}
	return mean, variance, nil
}

// PredictY returns the predictive mean and variance of the noisy
// observations at the rows of X.
func (g *VGP) PredictY(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	return predictY(g, X)
}

// predictY adds the likelihood noise to the latent predictive
// variance.
func predictY(m interface {
	PredictF(mat.Matrix) (*mat.Dense, *mat.Dense, error)
	Likelihood() *likelihood.Gaussian
}, X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	mean, variance, err := m.PredictF(X)
	if err != nil {
		return nil, nil, err
	}
	noise := m.Likelihood().Variance()
	variance.Apply(func(_, _ int, v float64) float64 { return v + noise }, variance)
	return mean, variance, nil
}
