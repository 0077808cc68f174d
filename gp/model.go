package gp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/model"
	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/likelihood"
	"github.com/YuminosukeSato/scigp/meanfn"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// base carries the state shared by all GP models: kernel, likelihood,
// mean function, and the training data recorded by Fit.
type base struct {
	model.BaseEstimator

	kern kernel.Kernel
	lik  *likelihood.Gaussian
	mean meanfn.MeanFunction

	X *mat.Dense // n x d training inputs
	Y *mat.Dense // n x p training targets

	n, d, p int
}

func newBase(kern kernel.Kernel, cfg *modelConfig) base {
	return base{
		kern: kern,
		lik:  cfg.lik,
		mean: cfg.mean,
	}
}

// Kernel returns the model's kernel.
func (b *base) Kernel() kernel.Kernel { return b.kern }

// Likelihood returns the model's Gaussian likelihood.
func (b *base) Likelihood() *likelihood.Gaussian { return b.lik }

// Mean returns the model's mean function.
func (b *base) Mean() meanfn.MeanFunction { return b.mean }

// setData validates and stores training data.
func (b *base) setData(op string, X, Y mat.Matrix) error {
	n, d := X.Dims()
	ny, p := Y.Dims()

	if n == 0 || d == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return errors.NewDimensionError(op, n, ny, 0)
	}
	if p == 0 {
		return errors.NewValueError(op, "Y must have at least one output column")
	}

	b.X = mat.DenseCopyOf(X)
	b.Y = mat.DenseCopyOf(Y)
	b.n, b.d, b.p = n, d, p
	return nil
}

// checkPredict validates prediction input against the fitted model.
func (b *base) checkPredict(modelName, method string, X mat.Matrix) (int, error) {
	if !b.IsFitted() {
		return 0, errors.NewNotFittedError(modelName, method)
	}
	s, d := X.Dims()
	if d != b.d {
		return 0, errors.NewDimensionError(modelName+"."+method, b.d, d, 1)
	}
	return s, nil
}

// meanVec evaluates the mean function at each row of X.
func (b *base) meanVec(X mat.Matrix) []float64 {
	r, _ := X.Dims()
	m := make([]float64, r)
	b.mean.Eval(m, X)
	return m
}

// residuals returns Y minus the mean function at the training inputs.
func (b *base) residuals() *mat.Dense {
	m := b.meanVec(b.X)
	err := mat.NewDense(b.n, b.p, nil)
	for i := 0; i < b.n; i++ {
		for j := 0; j < b.p; j++ {
			err.Set(i, j, b.Y.At(i, j)-m[i])
		}
	}
	return err
}

// commonParams returns kernel, mean-function, and likelihood parameters
// in a stable order.
func (b *base) commonParams() []*param.Param {
	var ps []*param.Param
	ps = append(ps, b.kern.Params()...)
	ps = append(ps, b.mean.Params()...)
	ps = append(ps, b.lik.Params()...)
	return ps
}

var (
	_ model.ProbabilisticRegressor = (*GPR)(nil)
	_ model.ProbabilisticRegressor = (*VGP)(nil)
	_ model.ProbabilisticRegressor = (*SVGP)(nil)
	_ model.ProbabilisticRegressor = (*SGPR)(nil)
	_ model.ProbabilisticRegressor = (*GPRFITC)(nil)

	_ model.ObjectiveReporter = (*GPR)(nil)
	_ model.ObjectiveReporter = (*VGP)(nil)
	_ model.ObjectiveReporter = (*SVGP)(nil)
	_ model.ObjectiveReporter = (*SGPR)(nil)
	_ model.ObjectiveReporter = (*GPRFITC)(nil)
)
