// Package param provides named model parameters with optional domain
// transforms. Optimizers work in unconstrained space; positive
// quantities such as kernel variances are stored constrained and
// exposed to the optimizer through a log transform. A parameter can be
// marked Fixed to exclude it from optimization, which is how inducing
// inputs are pinned to the training data.
package param

import (
	"math"

	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// Transform maps between the optimizer's unconstrained space and a
// parameter's constrained domain.
type Transform interface {
	// Name identifies the transform, e.g. "log".
	Name() string
	// Forward maps an unconstrained value into the domain.
	Forward(v float64) float64
	// Backward maps a domain value to unconstrained space.
	Backward(v float64) float64
}

type logTransform struct{}

func (logTransform) Name() string              { return "log" }
func (logTransform) Forward(v float64) float64 { return math.Exp(v) }
func (logTransform) Backward(v float64) float64 {
	return math.Log(v)
}

// Positive constrains a parameter to (0, inf) via a log transform.
var Positive Transform = logTransform{}

// Param is a named vector of float64 values with an optional transform
// and a Fixed flag.
type Param struct {
	name  string
	value []float64 // constrained space
	trans Transform // nil means identity

	// Fixed excludes the parameter from optimization.
	Fixed bool
}

// New creates an unconstrained parameter.
func New(name string, values ...float64) *Param {
	v := make([]float64, len(values))
	copy(v, values)
	return &Param{name: name, value: v}
}

// NewPositive creates a parameter constrained to (0, inf).
// It panics if any initial value is not strictly positive; initial
// values are constructor arguments, not data.
func NewPositive(name string, values ...float64) *Param {
	for _, v := range values {
		if !(v > 0) {
			panic("param: initial value for positive parameter " + name + " must be > 0")
		}
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Param{name: name, value: v, trans: Positive}
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// Len returns the number of scalar values.
func (p *Param) Len() int { return len(p.value) }

// Value returns the i-th constrained value.
func (p *Param) Value(i int) float64 { return p.value[i] }

// Values appends all constrained values to dst and returns it.
func (p *Param) Values(dst []float64) []float64 {
	return append(dst, p.value...)
}

// Set assigns the i-th constrained value.
func (p *Param) Set(i int, v float64) error {
	if p.trans != nil && !(v > 0) {
		return errors.NewValidationError(p.name, "value must be in the parameter's domain", v)
	}
	p.value[i] = v
	return nil
}

// SetAll assigns all constrained values.
func (p *Param) SetAll(values []float64) error {
	if len(values) != len(p.value) {
		return errors.NewDimensionError("param.SetAll", len(p.value), len(values), 0)
	}
	for i, v := range values {
		if err := p.Set(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Free appends the unconstrained representation to dst and returns it.
func (p *Param) Free(dst []float64) []float64 {
	for _, v := range p.value {
		if p.trans != nil {
			v = p.trans.Backward(v)
		}
		dst = append(dst, v)
	}
	return dst
}

// SetFree assigns values from the unconstrained representation.
// x must hold at least Len values; the number consumed is returned.
func (p *Param) SetFree(x []float64) int {
	for i := range p.value {
		v := x[i]
		if p.trans != nil {
			v = p.trans.Forward(v)
		}
		p.value[i] = v
	}
	return len(p.value)
}

// Parameterized is implemented by kernels, likelihoods, mean functions,
// and models that expose trainable parameters.
type Parameterized interface {
	Params() []*Param
}

// CountFree returns the number of free scalar values across params,
// skipping Fixed parameters.
func CountFree(params []*Param) int {
	n := 0
	for _, p := range params {
		if p.Fixed {
			continue
		}
		n += p.Len()
	}
	return n
}

// Pack collects the unconstrained values of all non-Fixed parameters.
func Pack(params []*Param) []float64 {
	x := make([]float64, 0, CountFree(params))
	for _, p := range params {
		if p.Fixed {
			continue
		}
		x = p.Free(x)
	}
	return x
}

// Unpack distributes unconstrained values back into the non-Fixed
// parameters and returns the number of values consumed.
func Unpack(params []*Param, x []float64) int {
	used := 0
	for _, p := range params {
		if p.Fixed {
			continue
		}
		used += p.SetFree(x[used:])
	}
	return used
}
