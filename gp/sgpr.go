package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// sparseBase carries the inducing-input parameter shared by the
// collapsed sparse models.
type sparseBase struct {
	base

	m int
	z *param.Param
}

func newSparseBase(kern kernel.Kernel, Z mat.Matrix, name string, cfg *modelConfig) sparseBase {
	m, d := Z.Dims()
	zv := make([]float64, 0, m*d)
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			zv = append(zv, Z.At(i, j))
		}
	}
	return sparseBase{
		base: newBase(kern, cfg),
		m:    m,
		z:    param.New(name, zv...),
	}
}

// InducingInputs returns the inducing input parameter. Setting its
// Fixed flag excludes the locations from optimization.
func (g *sparseBase) InducingInputs() *param.Param { return g.z }

// NumInducing returns the number of inducing points.
func (g *sparseBase) NumInducing() int { return g.m }

func (g *sparseBase) inducingMatrix() *mat.Dense {
	return mat.NewDense(g.m, g.z.Len()/g.m, g.z.Values(nil))
}

// Params returns kernel, mean, likelihood, and inducing parameters.
func (g *sparseBase) Params() []*param.Param {
	return append(g.commonParams(), g.z)
}

func (g *sparseBase) checkInducingDims(op string) error {
	if _, d := g.inducingMatrix().Dims(); d != g.d {
		return errors.NewDimensionError(op, g.d, d, 1)
	}
	return nil
}

// SGPR is sparse GP regression with the collapsed variational bound of
// Titsias. The optimal variational distribution is integrated out, so
// only the kernel, mean, likelihood, and inducing inputs remain as
// parameters.
type SGPR struct {
	sparseBase
}

// NewSGPR returns a collapsed sparse GP regression model with inducing
// inputs initialized to the rows of Z.
func NewSGPR(kern kernel.Kernel, Z mat.Matrix, opts ...Option) *SGPR {
	cfg := newModelConfig(opts)
	return &SGPR{sparseBase: newSparseBase(kern, Z, "sgpr.inducing", cfg)}
}

// Fit records the training data and maximizes the collapsed bound.
func (g *SGPR) Fit(X, Y mat.Matrix, opts ...FitOption) error {
	if err := g.setData("SGPR.Fit", X, Y); err != nil {
		return err
	}
	if err := g.checkInducingDims("SGPR.Fit"); err != nil {
		return err
	}
	if err := fitModel("SGPR", g, newFitConfig(opts)); err != nil {
		return err
	}
	g.SetFitted()
	return nil
}

// sgprFactors holds the shared pieces of the bound and the predictive
// distribution.
type sgprFactors struct {
	Luu *mat.Dense // chol(Kuu + jitter)
	LB  *mat.Dense // chol(A A^T + I)
	A   *mat.Dense // Luu^-1 Kuf / sigma
	c   *mat.Dense // LB^-1 A err / sigma
}

func (g *SGPR) factors(op string) (*sgprFactors, *mat.Dense, error) {
	Z := g.inducingMatrix()
	ch, err := cholFactor(op, kernSym(g.kern, Z), defaultJitter)
	if err != nil {
		return nil, nil, err
	}
	Luu := lowerFromChol(ch)

	sigma := math.Sqrt(g.lik.Variance())
	Kuf := kernCross(g.kern, Z, g.X)

	A, err := solveDense(op, Luu, Kuf)
	if err != nil {
		return nil, nil, err
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
		return nil, nil, err
	}
	LB := lowerFromChol(chB)

	resid := g.residuals()
	var Aerr mat.Dense
	Aerr.Mul(A, resid)
	c, err := solveDense(op, LB, &Aerr)
	if err != nil {
		return nil, nil, err
	}
	c.Scale(1/sigma, c)

	return &sgprFactors{Luu: Luu, LB: LB, A: A, c: c}, resid, nil
}

// Bound returns the collapsed variational lower bound on the log
// marginal likelihood.
func (g *SGPR) Bound() (float64, error) {
	f, resid, err := g.factors("SGPR.Bound")
	if err != nil {
		return 0, err
	}

	noise := g.lik.Variance()
	np := float64(g.n * g.p)
	pf := float64(g.p)

	bound := -0.5 * np * log2Pi
	bound -= pf * logAbsDetTri(f.LB)
	bound -= 0.5 * np * math.Log(noise)
	bound -= 0.5 * frobSq(resid) / noise
	bound += 0.5 * frobSq(f.c)

	kdiag := kernDiag(g.kern, g.X)
	var trK float64
	for _, v := range kdiag {
		trK += v
	}
	var trAAT float64
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			v := f.A.At(i, j)
			trAAT += v * v
		}
	}
	bound -= 0.5 * pf * trK / noise
	bound += 0.5 * pf * trAAT
	return bound, nil
}

// Objective returns the negative collapsed bound.
func (g *SGPR) Objective() (float64, error) {
	b, err := g.Bound()
	if err != nil {
		return 0, err
	}
	return -b, nil
}

// PredictF returns the posterior mean and variance of the latent
// function at the rows of X.
func (g *SGPR) PredictF(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	s, err := g.checkPredict("SGPR", "PredictF", X)
	if err != nil {
		return nil, nil, err
	}
	f, _, err := g.factors("SGPR.PredictF")
	if err != nil {
		return nil, nil, err
	}

	Z := g.inducingMatrix()
	Kus := kernCross(g.kern, Z, X)
	tmp1, err := solveDense("SGPR.PredictF", f.Luu, Kus)
	if err != nil {
		return nil, nil, err
	}
	tmp2, err := solveDense("SGPR.PredictF", f.LB, tmp1)
	if err != nil {
		return nil, nil, err
	}

	mean := mat.NewDense(s, g.p, nil)
	mean.Mul(tmp2.T(), f.c)
	ms := g.meanVec(X)
	for t := 0; t < s; t++ {
		for j := 0; j < g.p; j++ {
			mean.Set(t, j, mean.At(t, j)+ms[t])
		}
	}

	kss := kernDiag(g.kern, X)
	v1 := make([]float64, s)
	v2 := make([]float64, s)
	colSumSq(tmp1, v1)
	colSumSq(tmp2, v2)
	variance := mat.NewDense(s, g.p, nil)
	for t := 0; t < s; t++ {
		fv := kss[t] - v1[t] + v2[t]
		for j := 0; j < g.p; j++ {
			variance.Set(t, j, fv)
		}
	}
	return mean, variance, nil
}

// PredictY returns the predictive mean and variance of the noisy
// observations at the rows of X.
func (g *SGPR) PredictY(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	return predictY(g, X)
}

// GPRFITC is sparse GP regression under the FITC approximation, which
// replaces the training covariance with Qnn plus an exact diagonal
// correction.
type GPRFITC struct {
	sparseBase
}

// NewGPRFITC returns a FITC sparse GP regression model with inducing
// inputs initialized to the rows of Z.
func NewGPRFITC(kern kernel.Kernel, Z mat.Matrix, opts ...Option) *GPRFITC {
	cfg := newModelConfig(opts)
	return &GPRFITC{sparseBase: newSparseBase(kern, Z, "gprfitc.inducing", cfg)}
}

// Fit records the training data and maximizes the FITC log marginal
// likelihood.
func (g *GPRFITC) Fit(X, Y mat.Matrix, opts ...FitOption) error {
	if err := g.setData("GPRFITC.Fit", X, Y); err != nil {
		return err
	}
	if err := g.checkInducingDims("GPRFITC.Fit"); err != nil {
		return err
	}
	if err := fitModel("GPRFITC", g, newFitConfig(opts)); err != nil {
		return err
	}
	g.SetFitted()
	return nil
}

// fitcFactors holds the shared pieces of the FITC likelihood and the
// predictive distribution.
type fitcFactors struct {
	Luu   *mat.Dense
	LB    *mat.Dense
	nu    []float64  // diag(Knn - Qnn) + noise
	gamma *mat.Dense // LB^-1 V beta
	resid *mat.Dense
}

func (g *GPRFITC) factors(op string) (*fitcFactors, error) {
	Z := g.inducingMatrix()
	ch, err := cholFactor(op, kernSym(g.kern, Z), defaultJitter)
	if err != nil {
		return nil, err
	}
	Luu := lowerFromChol(ch)

	Kuf := kernCross(g.kern, Z, g.X)
	V, err := solveDense(op, Luu, Kuf)
	if err != nil {
		return nil, err
	}

	kdiag := kernDiag(g.kern, g.X)
	qdiag := make([]float64, g.n)
	colSumSq(V, qdiag)
	noise := g.lik.Variance()
	nu := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		nu[i] = kdiag[i] - qdiag[i] + noise
	}

	// B = I + V diag(1/nu) V^T
	Vs := mat.NewDense(g.m, g.n, nil)
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			Vs.Set(i, j, V.At(i, j)/nu[j])
		}
	}
	var B mat.Dense
	B.Mul(Vs, V.T())
	symB := mat.NewSymDense(g.m, nil)
	for i := 0; i < g.m; i++ {
		for j := 0; j <= i; j++ {
			v := 0.5 * (B.At(i, j) + B.At(j, i))
			if i == j {
				v += 1
			}
			symB.SetSym(i, j, v)
		}
	}
	chB, err := cholFactor(op, symB, 0)
	if err != nil {
		return nil, err
	}
	LB := lowerFromChol(chB)

	resid := g.residuals()
	beta := mat.NewDense(g.n, g.p, nil)
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.p; j++ {
			beta.Set(i, j, resid.At(i, j)/nu[i])
		}
	}
	var alpha mat.Dense
	alpha.Mul(V, beta)
	gamma, err := solveDense(op, LB, &alpha)
	if err != nil {
		return nil, err
	}

	return &fitcFactors{Luu: Luu, LB: LB, nu: nu, gamma: gamma, resid: resid}, nil
}

// LogMarginalLikelihood returns the FITC approximation of the log
// marginal likelihood.
func (g *GPRFITC) LogMarginalLikelihood() (float64, error) {
	f, err := g.factors("GPRFITC.LogMarginalLikelihood")
	if err != nil {
		return 0, err
	}

	np := float64(g.n * g.p)
	pf := float64(g.p)

	lml := -0.5 * np * log2Pi
	var logNu float64
	for _, v := range f.nu {
		logNu += math.Log(v)
	}
	lml -= 0.5 * pf * logNu
	lml -= pf * logAbsDetTri(f.LB)

	var quad float64
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.p; j++ {
			v := f.resid.At(i, j)
			quad += v * v / f.nu[i]
		}
	}
	lml -= 0.5 * quad
	lml += 0.5 * frobSq(f.gamma)
	return lml, nil
}

// Objective returns the negative FITC log marginal likelihood.
func (g *GPRFITC) Objective() (float64, error) {
	lml, err := g.LogMarginalLikelihood()
	if err != nil {
		return 0, err
	}
	return -lml, nil
}

// PredictF returns the posterior mean and variance of the latent
// function at the rows of X.
func (g *GPRFITC) PredictF(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	s, err := g.checkPredict("GPRFITC", "PredictF", X)
	if err != nil {
		return nil, nil, err
	}
	f, err := g.factors("GPRFITC.PredictF")
	if err != nil {
		return nil, nil, err
	}

	Z := g.inducingMatrix()
	Kus := kernCross(g.kern, Z, X)
	w, err := solveDense("GPRFITC.PredictF", f.Luu, Kus)
	if err != nil {
		return nil, nil, err
	}

	// intermediate = LB^-T gamma
	tmp, err := solveDense("GPRFITC.PredictF", f.LB.T(), f.gamma)
	if err != nil {
		return nil, nil, err
	}

	mean := mat.NewDense(s, g.p, nil)
	mean.Mul(w.T(), tmp)
	ms := g.meanVec(X)
	for t := 0; t < s; t++ {
		for j := 0; j < g.p; j++ {
			mean.Set(t, j, mean.At(t, j)+ms[t])
		}
	}

	w2, err := solveDense("GPRFITC.PredictF", f.LB, w)
	if err != nil {
		return nil, nil, err
	}
	kss := kernDiag(g.kern, X)
	v1 := make([]float64, s)
	v2 := make([]float64, s)
	colSumSq(w, v1)
	colSumSq(w2, v2)
	variance := mat.NewDense(s, g.p, nil)
	for t := 0; t < s; t++ {
		fv := kss[t] - v1[t] + v2[t]
		for j := 0; j < g.p; j++ {
			variance.Set(t, j, fv)
		}
	}
	return mean, variance, nil
}

// PredictY returns the predictive mean and variance of the noisy
// observations at the rows of X.
func (g *GPRFITC) PredictY(X mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	return predictY(g, X)
}
