// Package meanfn provides mean functions for Gaussian process models.
// A mean function maps inputs to a prior mean, shared across output
// columns.
package meanfn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/core/param"
)

// MeanFunction maps inputs to the prior mean of the latent process.
type MeanFunction interface {
	param.Parameterized

	// Eval writes the mean at each row of X into dst, which must have
	// length rows(X).
	Eval(dst []float64, X mat.Matrix)
}

// Zero is the zero mean function.
type Zero struct{}

// NewZero creates a zero mean function.
func NewZero() Zero { return Zero{} }

// Params implements param.Parameterized.
func (Zero) Params() []*param.Param { return nil }

// Eval implements MeanFunction.
func (Zero) Eval(dst []float64, X mat.Matrix) {
	for i := range dst {
		dst[i] = 0
	}
}

// Constant is a trainable constant mean function. The single scalar is
// broadcast over all inputs and output columns.
type Constant struct {
	c *param.Param
}

// NewConstant creates a constant mean function initialized at c.
func NewConstant(c float64) *Constant {
	return &Constant{c: param.New("mean.constant", c)}
}

// C returns the current constant.
func (m *Constant) C() float64 { return m.c.Value(0) }

// Params implements param.Parameterized.
func (m *Constant) Params() []*param.Param {
	return []*param.Param{m.c}
}

// Eval implements MeanFunction.
func (m *Constant) Eval(dst []float64, X mat.Matrix) {
	c := m.c.Value(0)
	for i := range dst {
		dst[i] = c
	}
}
