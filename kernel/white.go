package kernel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
)

// White is the white-noise kernel: variance on the diagonal of K(X, X),
// zero everywhere else, including all cross-covariances.
type White struct {
	variance *param.Param
}

// NewWhite creates a White kernel with unit variance.
func NewWhite() *White {
	return &White{variance: param.NewPositive("white.variance", 1)}
}

// Name implements Kernel.
func (k *White) Name() string { return "white" }

// Variance returns the noise variance.
func (k *White) Variance() float64 { return k.variance.Value(0) }

// Params implements param.Parameterized.
func (k *White) Params() []*param.Param {
	return []*param.Param{k.variance}
}

// Eval implements Kernel. Distinct points never coincide under the
// white-noise process, so Eval reports zero; the diagonal contribution
// comes from Matrix and Diag.
func (k *White) Eval(x, y []float64) float64 {
	return 0
}

// Matrix implements Kernel.
func (k *White) Matrix(dst *mat.SymDense, X mat.Matrix) {
	n, _ := X.Dims()
	v := k.variance.Value(0)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				dst.SetSym(i, j, v)
			} else {
				dst.SetSym(i, j, 0)
			}
		}
	}
}

// Cross implements Kernel. Cross-covariances of white noise are zero.
func (k *White) Cross(dst *mat.Dense, X, Z mat.Matrix) {
	dst.Zero()
}

// Diag implements Kernel.
func (k *White) Diag(dst []float64, X mat.Matrix) {
	v := k.variance.Value(0)
	for i := range dst {
		dst[i] = v
	}
}
