package kernel

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/parallel"
	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// RBF is the isotropic squared-exponential kernel
//
//	k(x, y) = variance * exp(-|x-y|^2 / (2 * lengthscale^2))
//
// Both hyperparameters are positive and trainable.
type RBF struct {
	inputDim    int
	variance    *param.Param
	lengthscale *param.Param
}

// NewRBF creates an RBF kernel with unit variance and lengthscale.
func NewRBF(inputDim int) *RBF {
	return &RBF{
		inputDim:    inputDim,
		variance:    param.NewPositive("rbf.variance", 1),
		lengthscale: param.NewPositive("rbf.lengthscale", 1),
	}
}

// Name implements Kernel.
func (k *RBF) Name() string { return "rbf" }

// InputDim returns the expected input dimensionality.
func (k *RBF) InputDim() int { return k.inputDim }

// Variance returns the signal variance.
func (k *RBF) Variance() float64 { return k.variance.Value(0) }

// Lengthscale returns the lengthscale.
func (k *RBF) Lengthscale() float64 { return k.lengthscale.Value(0) }

// SetVariance sets the signal variance. It must be positive.
func (k *RBF) SetVariance(v float64) error {
	if !(v > 0) {
		return errors.NewValidationError("rbf.variance", "must be positive", v)
	}
	return k.variance.Set(0, v)
}

// SetLengthscale sets the lengthscale. It must be positive.
func (k *RBF) SetLengthscale(l float64) error {
	if !(l > 0) {
		return errors.NewValidationError("rbf.lengthscale", "must be positive", l)
	}
	return k.lengthscale.Set(0, l)
}

// Params implements param.Parameterized.
func (k *RBF) Params() []*param.Param {
	return []*param.Param{k.variance, k.lengthscale}
}

// Eval implements Kernel.
func (k *RBF) Eval(x, y []float64) float64 {
	var r2 float64
	for i := range x {
		d := x[i] - y[i]
		r2 += d * d
	}
	l := k.lengthscale.Value(0)
	return k.variance.Value(0) * math.Exp(-0.5*r2/(l*l))
}

// Matrix implements Kernel.
func (k *RBF) Matrix(dst *mat.SymDense, X mat.Matrix) {
	n, _ := X.Dims()
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		var xi, xj []float64
		for i := start; i < end; i++ {
			xi = rowOf(xi, X, i)
			for j := i; j < n; j++ {
				xj = rowOf(xj, X, j)
				dst.SetSym(i, j, k.Eval(xi, xj))
			}
		}
	})
}

// Cross implements Kernel.
func (k *RBF) Cross(dst *mat.Dense, X, Z mat.Matrix) {
	n, _ := X.Dims()
	m, _ := Z.Dims()
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		var xi, zj []float64
		for i := start; i < end; i++ {
			xi = rowOf(xi, X, i)
			for j := 0; j < m; j++ {
				zj = rowOf(zj, Z, j)
				dst.Set(i, j, k.Eval(xi, zj))
			}
		}
	})
}

// Diag implements Kernel. The RBF diagonal is the variance.
func (k *RBF) Diag(dst []float64, X mat.Matrix) {
	v := k.variance.Value(0)
	for i := range dst {
		dst[i] = v
	}
}
