package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

const (
	log2Pi = 1.8378770664093454835606594728112352797227949472755668

	// defaultJitter is added to inducing-point covariance matrices
	// before factorization, matching the usual sparse-GP practice.
	defaultJitter = 1e-6

	// maxJitter bounds the escalation when a factorization keeps
	// failing.
	maxJitter = 1e-2
)

// addDiag adds v to the diagonal of s.
func addDiag(s *mat.SymDense, v float64) {
	n, _ := s.Dims()
	for i := 0; i < n; i++ {
		s.SetSym(i, i, s.At(i, i)+v)
	}
}

// cholFactor factorizes s + extraDiag*I, escalating diagonal jitter on
// failure before giving up with a CholeskyError.
func cholFactor(op string, s *mat.SymDense, extraDiag float64) (*mat.Cholesky, error) {
	n, _ := s.Dims()
	work := mat.NewSymDense(n, nil)
	work.CopySym(s)
	if extraDiag != 0 {
		addDiag(work, extraDiag)
	}

	var chol mat.Cholesky
	if chol.Factorize(work) {
		return &chol, nil
	}

	total := 0.0
	for jitter := defaultJitter; jitter <= maxJitter; jitter *= 10 {
		addDiag(work, jitter)
		total += jitter
		if chol.Factorize(work) {
			return &chol, nil
		}
	}
	return nil, errors.NewCholeskyError(op, n, total)
}

// lowerFromChol extracts the lower Cholesky factor as a Dense matrix.
func lowerFromChol(ch *mat.Cholesky) *mat.Dense {
	var tri mat.TriDense
	ch.LTo(&tri)
	return mat.DenseCopyOf(&tri)
}

// solveDense returns a^-1 b for a square a.
func solveDense(op string, a, b mat.Matrix) (*mat.Dense, error) {
	var out mat.Dense
	if err := out.Solve(a, b); err != nil {
		return nil, errors.NewModelError(op, "linear solve failed", err)
	}
	return &out, nil
}

// colSumSq writes the squared column norms of a into dst.
func colSumSq(a *mat.Dense, dst []float64) {
	r, c := a.Dims()
	for j := 0; j < c; j++ {
		var s float64
		for i := 0; i < r; i++ {
			v := a.At(i, j)
			s += v * v
		}
		dst[j] = s
	}
}

// frobSq returns the squared Frobenius norm of a.
func frobSq(a *mat.Dense) float64 {
	r, c := a.Dims()
	var s float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			s += v * v
		}
	}
	return s
}

// triSize returns the number of packed entries of an n x n lower
// triangle.
func triSize(n int) int { return n * (n + 1) / 2 }

// fillLowerTri expands packed row-major lower-triangular values into
// dst, zeroing the strict upper triangle.
func fillLowerTri(dst *mat.Dense, packed []float64, n int) {
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			dst.Set(i, j, packed[k])
			k++
		}
		for j := i + 1; j < n; j++ {
			dst.Set(i, j, 0)
		}
	}
}

// identityTriPacked returns the packed lower triangle of the n x n
// identity.
func identityTriPacked(n int) []float64 {
	packed := make([]float64, triSize(n))
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if i == j {
				packed[k] = 1
			}
			k++
		}
	}
	return packed
}

// packLowerTri returns the row-major packed lower triangle of the
// leading n x n block of t.
func packLowerTri(t mat.Matrix, n int) []float64 {
	packed := make([]float64, 0, triSize(n))
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			packed = append(packed, t.At(i, j))
		}
	}
	return packed
}

// logAbsDetTri returns log|det T| for a lower-triangular T held in a
// Dense matrix. A zero diagonal entry yields -Inf.
func logAbsDetTri(t *mat.Dense) float64 {
	n, _ := t.Dims()
	var s float64
	for i := 0; i < n; i++ {
		s += math.Log(math.Abs(t.At(i, i)))
	}
	return s
}

// kernSym evaluates K(X, X) into a fresh SymDense.
func kernSym(k kernel.Kernel, X mat.Matrix) *mat.SymDense {
	n, _ := X.Dims()
	K := mat.NewSymDense(n, nil)
	k.Matrix(K, X)
	return K
}

// kernCross evaluates K(X, Z) into a fresh Dense.
func kernCross(k kernel.Kernel, X, Z mat.Matrix) *mat.Dense {
	n, _ := X.Dims()
	m, _ := Z.Dims()
	K := mat.NewDense(n, m, nil)
	k.Cross(K, X, Z)
	return K
}

// kernDiag evaluates the diagonal of K(X, X).
func kernDiag(k kernel.Kernel, X mat.Matrix) []float64 {
	n, _ := X.Dims()
	d := make([]float64, n)
	k.Diag(d, X)
	return d
}
