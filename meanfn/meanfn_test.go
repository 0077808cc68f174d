package meanfn

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestZero(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	dst := []float64{9, 9, 9}
	NewZero().Eval(dst, X)
	if !floats.EqualApprox(dst, []float64{0, 0, 0}, 1e-15) {
		t.Errorf("zero mean should overwrite with zeros, got %v", dst)
	}
	if NewZero().Params() != nil {
		t.Error("zero mean has no parameters")
	}
}

func TestConstant(t *testing.T) {
	m := NewConstant(1.5)
	X := mat.NewDense(2, 1, []float64{0, 10})
	dst := make([]float64, 2)
	m.Eval(dst, X)
	if !floats.EqualApprox(dst, []float64{1.5, 1.5}, 1e-15) {
		t.Errorf("constant mean = %v, want [1.5 1.5]", dst)
	}

	ps := m.Params()
	if len(ps) != 1 {
		t.Fatalf("constant mean should expose 1 param, got %d", len(ps))
	}
	ps[0].SetFree([]float64{-2})
	if m.C() != -2 {
		t.Errorf("constant should be trainable, got %v", m.C())
	}
}
