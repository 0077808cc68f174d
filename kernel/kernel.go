// Package kernel provides covariance functions for Gaussian process
// models.
package kernel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
)

// Row count above which kernel matrix assembly runs in parallel.
const parallelThreshold = 256

// Kernel is a positive semi-definite covariance function.
type Kernel interface {
	param.Parameterized

	// Name identifies the kernel family, e.g. "rbf".
	Name() string

	// Eval returns k(x, y) for single points.
	Eval(x, y []float64) float64

	// Matrix writes K(X, X) into dst. dst must be n x n where n is the
	// number of rows of X.
	Matrix(dst *mat.SymDense, X mat.Matrix)

	// Cross writes K(X, Z) into dst. dst must be rows(X) x rows(Z).
	Cross(dst *mat.Dense, X, Z mat.Matrix)

	// Diag writes the diagonal of K(X, X) into dst, which must have
	// length rows(X).
	Diag(dst []float64, X mat.Matrix)
}

// rowOf extracts row i of m into buf, growing it as needed.
func rowOf(buf []float64, m mat.Matrix, i int) []float64 {
	_, c := m.Dims()
	if cap(buf) < c {
		buf = make([]float64, c)
	}
	buf = buf[:c]
	for j := 0; j < c; j++ {
		buf[j] = m.At(i, j)
	}
	return buf
}
