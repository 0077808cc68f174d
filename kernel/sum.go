package kernel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
)

// Sum is the sum of component kernels. Components stay accessible by
// family name, so hyperparameters of a composite kernel can still be
// read off its parts, e.g. Sum.Term("rbf").(*RBF).Variance().
type Sum struct {
	terms []Kernel
}

// NewSum creates a Sum kernel over the given terms.
func NewSum(terms ...Kernel) *Sum {
	return &Sum{terms: terms}
}

// Name implements Kernel.
func (k *Sum) Name() string { return "sum" }

// Term returns the first component with the given family name, or nil.
func (k *Sum) Term(name string) Kernel {
	for _, t := range k.terms {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// Terms returns the component kernels.
func (k *Sum) Terms() []Kernel { return k.terms }

// Params implements param.Parameterized.
func (k *Sum) Params() []*param.Param {
	var ps []*param.Param
	for _, t := range k.terms {
		ps = append(ps, t.Params()...)
	}
	return ps
}

// Eval implements Kernel.
func (k *Sum) Eval(x, y []float64) float64 {
	var s float64
	for _, t := range k.terms {
		s += t.Eval(x, y)
	}
	return s
}

// Matrix implements Kernel.
func (k *Sum) Matrix(dst *mat.SymDense, X mat.Matrix) {
	n, _ := X.Dims()
	tmp := mat.NewSymDense(n, nil)
	for ti, t := range k.terms {
		if ti == 0 {
			t.Matrix(dst, X)
			continue
		}
		t.Matrix(tmp, X)
		dst.AddSym(dst, tmp)
	}
}

// Cross implements Kernel.
func (k *Sum) Cross(dst *mat.Dense, X, Z mat.Matrix) {
	n, _ := X.Dims()
	m, _ := Z.Dims()
	tmp := mat.NewDense(n, m, nil)
	for ti, t := range k.terms {
		if ti == 0 {
			t.Cross(dst, X, Z)
			continue
		}
		t.Cross(tmp, X, Z)
		dst.Add(dst, tmp)
	}
}

// Diag implements Kernel.
func (k *Sum) Diag(dst []float64, X mat.Matrix) {
	tmp := make([]float64, len(dst))
	for ti, t := range k.terms {
		if ti == 0 {
			t.Diag(dst, X)
			continue
		}
		t.Diag(tmp, X)
		for i := range dst {
			dst[i] += tmp[i]
		}
	}
}
