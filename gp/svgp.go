package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// SVGP is sparse variational Gaussian process regression with an
// explicit variational distribution over M inducing outputs. The
// inducing inputs are a parameter; set Fixed on InducingInputs to keep
// them at their initial locations. WithWhitening selects the whitened
// parameterization and WithDiagonalPosterior restricts the posterior
// covariance to a diagonal.
type SVGP struct {
	base

	whiten bool
	qDiag  bool

	m int // number of inducing points
	z *param.Param

	// qMu holds m*p values, one block of m per output column.
	qMu *param.Param
	// qSqrt holds either p packed lower triangles (full) or m*p
	// positive scales (diagonal).
	qSqrt *param.Param
}

// NewSVGP returns a sparse variational GP model with inducing inputs
// initialized to the rows of Z.
func NewSVGP(kern kernel.Kernel, Z mat.Matrix, opts ...Option) *SVGP {
	cfg := newModelConfig(opts)
	m, d := Z.Dims()
	zv := make([]float64, 0, m*d)
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			zv = append(zv, Z.At(i, j))
		}
	}
	return &SVGP{
		base:   newBase(kern, cfg),
		whiten: cfg.whiten,
		qDiag:  cfg.qDiag,
		m:      m,
		z:      param.New("svgp.inducing", zv...),
	}
}

// InducingInputs returns the inducing input parameter. Setting its
// Fixed flag excludes the locations from optimization.
func (g *SVGP) InducingInputs() *param.Param { return g.z }

// NumInducing returns the number of inducing points.
func (g *SVGP) NumInducing() int { return g.m }

func (g *SVGP) inducingMatrix() *mat.Dense {
	return mat.NewDense(g.m, g.z.Len()/g.m, g.z.Values(nil))
}

// Params returns kernel, mean, likelihood, inducing, and variational
// parameters.
func (g *SVGP) Params() []*param.Param {
	ps := g.commonParams()
	ps = append(ps, g.z)
	if g.qMu != nil {
		ps = append(ps, g.qMu, g.qSqrt)
	}
	return ps
}

// Fit records the training data and maximizes the evidence lower
// bound. The whitened posterior starts at N(0, I) and the unwhitened
// one at the prior N(0, Kzz); a later Fit on data of the same shape
// keeps the existing distribution and its Fixed flags. For the
// unwhitened full-covariance parameterization the Gaussian likelihood
// admits a closed-form optimal posterior, so the optimizer moves only
// the hyperparameters and inducing inputs while the posterior tracks
// that optimum. Optimizing the unwhitened posterior jointly is badly
// conditioned through Kzz and tends to stall far from the optimum.
func (g *SVGP) Fit(X, Y mat.Matrix, opts ...FitOption) error {
	if err := g.setData("SVGP.Fit", X, Y); err != nil {
		return err
	}
	if _, d := g.inducingMatrix().Dims(); d != g.d {
		return errors.NewDimensionError("SVGP.Fit", g.d, d, 1)
	}

	if g.qMu == nil || g.qMu.Len() != g.m*g.p {
		if err := g.initQ("SVGP.Fit"); err != nil {
			return err
		}
	}

	cfg := newFitConfig(opts)
	if g.whiten || g.qDiag || g.qMu.Fixed || g.qSqrt.Fixed {
		if err := fitModel("SVGP", g, cfg); err != nil {
			return err
		}
	} else {
		if err := fitModel("SVGP", &collapsedSVGP{g}, cfg); err != nil {
			return err
		}
	}
	g.SetFitted()
	return nil
}

// initQ allocates the variational distribution. Whitened q(v) starts
// at N(0, I); unwhitened q(u) starts at the prior N(0, Kzz), which is
// the same start mapped through u = Lz v.
func (g *SVGP) initQ(op string) error {
	g.qMu = param.New("svgp.q_mu", make([]float64, g.m*g.p)...)

	if g.qDiag {
		diag := make([]float64, g.m*g.p)
		if g.whiten {
			for i := range diag {
				diag[i] = 1
			}
		} else {
			kd := kernDiag(g.kern, g.inducingMatrix())
			for j := 0; j < g.p; j++ {
				for i := 0; i < g.m; i++ {
					diag[j*g.m+i] = math.Sqrt(kd[i] + defaultJitter)
				}
			}
		}
		g.qSqrt = param.NewPositive("svgp.q_sqrt", diag...)
		return nil
	}

	var packed []float64
	if g.whiten {
		packed = identityTriPacked(g.m)
	} else {
		ch, err := cholFactor(op, kernSym(g.kern, g.inducingMatrix()), defaultJitter)
		if err != nil {
			return err
		}
		packed = packLowerTri(lowerFromChol(ch), g.m)
	}
	sq := make([]float64, 0, g.p*len(packed))
	for j := 0; j < g.p; j++ {
		sq = append(sq, packed...)
	}
	g.qSqrt = param.New("svgp.q_sqrt", sq...)
	return nil
}

// setOptimalQ assigns the unwhitened variational distribution its
// closed-form optimum at the current hyperparameters: with
// Sigma = Kzz + Kzx Kxz / noise, the optimal posterior is
// N(Kzz Sigma^-1 Kzx err / noise, Kzz Sigma^-1 Kzz).
func (g *SVGP) setOptimalQ(op string) error {
	Z := g.inducingMatrix()
	ch, err := cholFactor(op, kernSym(g.kern, Z), defaultJitter)
	if err != nil {
		return err
	}
	Lz := lowerFromChol(ch)

	sigma := math.Sqrt(g.lik.Variance())
	Kzx := kernCross(g.kern, Z, g.X)
	A, err := solveDense(op, Lz, Kzx)
	if err != nil {
		return err
	}
	A.Scale(1/sigma, A)

	var B mat.Dense
	B.Mul(A, A.T())
	for i := 0; i < g.m; i++ {
		B.Set(i, i, B.At(i, i)+1)
	}
	symB := mat.NewSymDense(g.m, nil)
	for i := 0; i < g.m; i++ {
		for j := 0; j <= i; j++ {
			symB.SetSym(i, j, 0.5*(B.At(i, j)+B.At(j, i)))
		}
	}
	chB, err := cholFactor(op, symB, 0)
	if err != nil {
		return err
	}
	LB := lowerFromChol(chB)

	// S = Lz B^-1 Lz^T = W^T W with W = LB^-1 Lz^T.
	W, err := solveDense(op, LB, Lz.T())
	if err != nil {
		return err
	}
	S := mat.NewSymDense(g.m, nil)
	for i := 0; i < g.m; i++ {
		for j := 0; j <= i; j++ {
			var s float64
			for r := 0; r < g.m; r++ {
				s += W.At(r, i) * W.At(r, j)
			}
			S.SetSym(i, j, s)
		}
	}
	chS, err := cholFactor(op, S, 0)
	if err != nil {
		return err
	}
	packed := packLowerTri(lowerFromChol(chS), g.m)

	// Mean per column: Lz B^-1 A err / sigma.
	var Aerr mat.Dense
	Aerr.Mul(A, g.residuals())
	c, err := solveDense(op, LB, &Aerr)
	if err != nil {
		return err
	}
	c, err = solveDense(op, LB.T(), c)
	if err != nil {
		return err
	}
	var mu mat.Dense
	mu.Mul(Lz, c)
	mu.Scale(1/sigma, &mu)

	muVals := make([]float64, g.m*g.p)
	for j := 0; j < g.p; j++ {
		for i := 0; i < g.m; i++ {
			muVals[j*g.m+i] = mu.At(i, j)
		}
	}
	if err := g.qMu.SetAll(muVals); err != nil {
		return err
	}
	sqVals := make([]float64, 0, g.p*len(packed))
	for j := 0; j < g.p; j++ {
		sqVals = append(sqVals, packed...)
	}
	return g.qSqrt.SetAll(sqVals)
}

// collapsedSVGP exposes the unwhitened model to the fit driver with
// the variational distribution held at its closed-form optimum, so the
// objective the optimizer sees is the collapsed bound over the
// remaining parameters.
type collapsedSVGP struct {
	g *SVGP
}

func (c *collapsedSVGP) Params() []*param.Param {
	return append(c.g.commonParams(), c.g.z)
}

func (c *collapsedSVGP) Objective() (float64, error) {
	if err := c.g.setOptimalQ("SVGP.Fit"); err != nil {
		return 0, err
	}
	return c.g.Objective()
}

// sqrtDense expands the j-th output's covariance factor into an m x m
// lower-triangular matrix.
func (g *SVGP) sqrtDense(dst *mat.Dense, qSq []float64, j int) {
	if g.qDiag {
		dst.Zero()
		for i := 0; i < g.m; i++ {
			dst.Set(i, i, qSq[j*g.m+i])
		}
		return
	}
	ts := triSize(g.m)
	fillLowerTri(dst, qSq[j*ts:(j+1)*ts], g.m)
}

// marginals computes the predictive mean and variance of the latent
// function at the rows of X under the current variational
// distribution.
func (g *SVGP) marginals(op string, X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	s, _ := X.Dims()
	Z := g.inducingMatrix()

	ch, err := cholFactor(op, kernSym(g.kern, Z), defaultJitter)
	if err != nil {
		return nil, nil, err
	}
	Lz := lowerFromChol(ch)
	Kzs := kernCross(g.kern, Z, X) // m x s

	A, err := solveDense(op, Lz, Kzs)
	if err != nil {
		return nil, nil, err
	}
	kss := kernDiag(g.kern, X)
	baseVar := make([]float64, s)
	colSumSq(A, baseVar)

	if !g.whiten {
		// Unwhitened q acts through Kzz^-1 Kzs.
		A, err = solveDense(op, Lz.T(), A)
		if err != nil {
			return nil, nil, err
		}
	}

	ms := g.meanVec(X)
	qMu := g.qMu.Values(nil)
	qSq := g.qSqrt.Values(nil)

	mean := mat.NewDense(s, g.p, nil)
	variance := mat.NewDense(s, g.p, nil)
	sq := mat.NewDense(g.m, g.m, nil)
	var proj mat.Dense
	projVar := make([]float64, s)
	for j := 0; j < g.p; j++ {
		muBlock := qMu[j*g.m : (j+1)*g.m]
		g.sqrtDense(sq, qSq, j)

		proj.Mul(sq.T(), A)
		colSumSq(&proj, projVar)
		for t := 0; t < s; t++ {
			var fm float64
			for i := 0; i < g.m; i++ {
				fm += A.At(i, t) * muBlock[i]
			}
			mean.Set(t, j, ms[t]+fm)
			variance.Set(t, j, kss[t]-baseVar[t]+projVar[t])
		}
	}
	return mean, variance, nil
}

// priorKL returns KL(q(u) || p(u)) summed over output columns, where
// p(u) is N(0, I) under whitening and N(0, Kzz) otherwise.
func (g *SVGP) priorKL(op string) (float64, error) {
	qMu := g.qMu.Values(nil)
	qSq := g.qSqrt.Values(nil)
	sq := mat.NewDense(g.m, g.m, nil)

	if g.whiten {
		var kl float64
		for j := 0; j < g.p; j++ {
			g.sqrtDense(sq, qSq, j)
			kl += klWhitened(qMu[j*g.m:(j+1)*g.m], sq)
		}
		return kl, nil
	}

	Z := g.inducingMatrix()
	ch, err := cholFactor(op, kernSym(g.kern, Z), defaultJitter)
	if err != nil {
		return 0, err
	}
	Lz := lowerFromChol(ch)
	logDetKzz := 2 * logAbsDetTri(Lz)

	var kl float64
	mu := mat.NewDense(g.m, 1, nil)
	for j := 0; j < g.p; j++ {
		muBlock := qMu[j*g.m : (j+1)*g.m]
		for i := 0; i < g.m; i++ {
			mu.Set(i, 0, muBlock[i])
		}
		g.sqrtDense(sq, qSq, j)

		// tr(Kzz^-1 S) with S = sq sq^T.
		w, err := solveDense(op, Lz, sq)
		if err != nil {
			return 0, err
		}
		trace := frobSq(w)

		wm, err := solveDense(op, Lz, mu)
		if err != nil {
			return 0, err
		}
		mahal := frobSq(wm)

		var logDetS float64
		for i := 0; i < g.m; i++ {
			logDetS += 2 * math.Log(math.Abs(sq.At(i, i)))
		}

		kl += 0.5 * (trace + mahal - float64(g.m) + logDetKzz - logDetS)
	}
	return kl, nil
}

// ELBO returns the evidence lower bound on the log marginal likelihood
// under the current parameters.
func (g *SVGP) ELBO() (float64, error) {
	fmean, fvar, err := g.marginals("SVGP.ELBO", g.X)
	if err != nil {
		return 0, err
	}
	kl, err := g.priorKL("SVGP.ELBO")
	if err != nil {
		return 0, err
	}

	var bound float64
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.p; j++ {
			bound += g.lik.VariationalExpectation(g.Y.At(i, j), fmean.At(i, j), fvar.At(i, j))
		}
	}
	return bound - kl, nil
}

// Objective returns the negative evidence lower bound.
func (g *SVGP) Objective() (float64, error) {
	b, err := g.ELBO()
	if err != nil {
		return 0, err
	}
	return -b, nil
}

// PredictF returns the posterior mean and variance of the latent
// function at the rows of X.
func (g *SVGP) PredictF(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	if _, err := g.checkPredict("SVGP", "PredictF", X); err != nil {
		return nil, nil, err
	}
	return g.marginals("SVGP.PredictF", X)
}

// PredictY returns the predictive mean and variance of the noisy
// observations at the rows of X.
func (g *SVGP) PredictY(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	return predictY(g, X)
}
