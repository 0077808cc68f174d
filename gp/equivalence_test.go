package gp

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/kernel"
	"github.com/YuminosukeSato/scigp/meanfn"
	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// equivalenceData draws n training points and ntest prediction points
// from a fixed generator. Targets follow a smooth signal plus noise,
// duplicated into two identical output columns.
func equivalenceData(n, ntest int) (X, Y, Xtest *mat.Dense) {
	rng := rand.New(rand.NewSource(0))

	X = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, rng.Float64()*10)
	}
	Y = mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x := X.At(i, 0)
		y := math.Sin(x) + 0.9*math.Cos(x*1.6) + rng.NormFloat64()*0.8
		Y.Set(i, 0, y)
		Y.Set(i, 1, y)
	}
	Xtest = mat.NewDense(ntest, 1, nil)
	for i := 0; i < ntest; i++ {
		Xtest.Set(i, 0, rng.Float64()*10)
	}
	return X, Y, Xtest
}

// closeEnough mirrors the usual allclose convention: absolute slack
// 1e-8 or relative slack rtol against the larger magnitude.
func closeEnough(a, b, rtol float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 1e-8, rtol)
}

type fittable interface {
	Objective() (float64, error)
	PredictY(mat.Matrix) (*mat.Dense, *mat.Dense, error)
	Kernel() kernel.Kernel
}

// TestMethodEquivalence checks that with a Gaussian
// likelihood and inducing inputs pinned at the training inputs, the
// variational and sparse approximations all recover exact GP
// regression: same optimum, same hyperparameters, same predictions.
func TestMethodEquivalence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping six full model fits in short mode")
	}

	// The iteration cap is expected to be hit by the larger models;
	// swallow the convergence warnings.
	errors.SetWarningHandler(func(error) {})

	X, Y, Xtest := equivalenceData(20, 10)

	gpr := NewGPR(kernel.NewRBF(1), WithMean(meanfn.NewConstant(0)))
	vgp := NewVGP(kernel.NewRBF(1), WithMean(meanfn.NewConstant(0)))
	svgpU := NewSVGP(kernel.NewRBF(1), X, WithMean(meanfn.NewConstant(0)))
	svgpW := NewSVGP(kernel.NewRBF(1), X, WithMean(meanfn.NewConstant(0)), WithWhitening(true))
	sgpr := NewSGPR(kernel.NewRBF(1), X, WithMean(meanfn.NewConstant(0)))
	fitc := NewGPRFITC(kernel.NewRBF(1), X, WithMean(meanfn.NewConstant(0)))

	svgpU.InducingInputs().Fixed = true
	svgpW.InducingInputs().Fixed = true
	sgpr.InducingInputs().Fixed = true
	fitc.InducingInputs().Fixed = true

	names := []string{"GPR", "VGP", "SVGP", "SVGP-whitened", "SGPR", "GPRFITC"}
	models := []fittable{gpr, vgp, svgpU, svgpW, sgpr, fitc}

	type fitter interface {
		Fit(X, Y mat.Matrix, opts ...FitOption) error
	}
	for i, m := range models {
		if err := m.(fitter).Fit(X, Y, WithMaxIter(300)); err != nil {
			t.Fatalf("%s Fit: %v", names[i], err)
		}
	}

	objectives := make([]float64, len(models))
	for i, m := range models {
		obj, err := m.Objective()
		if err != nil {
			t.Fatalf("%s Objective: %v", names[i], err)
		}
		objectives[i] = obj
	}
	for i := 1; i < len(objectives); i++ {
		for j := 0; j < i; j++ {
			if !closeEnough(objectives[i], objectives[j], 1e-6) {
				t.Errorf("objectives diverge: %s = %v, %s = %v",
					names[i], objectives[i], names[j], objectives[j])
			}
		}
	}

	variances := make([]float64, len(models))
	lengthscales := make([]float64, len(models))
	for i, m := range models {
		rbf := m.Kernel().(*kernel.RBF)
		variances[i] = rbf.Variance()
		lengthscales[i] = rbf.Lengthscale()
	}
	for i := 1; i < len(variances); i++ {
		for j := 0; j < i; j++ {
			if !closeEnough(variances[i], variances[j], 1e-5) {
				t.Errorf("kernel variances diverge: %s = %v, %s = %v",
					names[i], variances[i], names[j], variances[j])
			}
		}
	}
	meanLS := floats.Sum(lengthscales) / float64(len(lengthscales))
	for i, ls := range lengthscales {
		if !closeEnough(ls, meanLS, 1e-4) {
			t.Errorf("%s lengthscale %v strays from mean %v", names[i], ls, meanLS)
		}
	}

	refMean, refVar, err := gpr.PredictY(Xtest)
	if err != nil {
		t.Fatalf("GPR PredictY: %v", err)
	}
	rows, cols := refMean.Dims()
	for i := 1; i < len(models); i++ {
		mean, variance, err := models[i].PredictY(Xtest)
		if err != nil {
			t.Fatalf("%s PredictY: %v", names[i], err)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if !closeEnough(mean.At(r, c), refMean.At(r, c), 1e-3) {
					t.Errorf("%s predictive mean[%d,%d] = %v, GPR = %v",
						names[i], r, c, mean.At(r, c), refMean.At(r, c))
				}
				if !closeEnough(variance.At(r, c), refVar.At(r, c), 1e-4) {
					t.Errorf("%s predictive variance[%d,%d] = %v, GPR = %v",
						names[i], r, c, variance.At(r, c), refVar.At(r, c))
				}
			}
		}
	}
}
