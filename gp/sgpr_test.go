package gp

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/kernel"
)

// exactReference fits a pinned GPR on the same data and returns its log
// marginal likelihood.
func exactReference(t *testing.T, X, Y *mat.Dense) float64 {
	t.Helper()
	m := NewGPR(kernel.NewRBF(1))
	pinAll(t, m.Params())
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("GPR Fit: %v", err)
	}
	lml, err := m.LogMarginalLikelihood()
	if err != nil {
		t.Fatalf("GPR LogMarginalLikelihood: %v", err)
	}
	return lml
}

func TestSGPRBoundMatchesExactWithFullInducing(t *testing.T) {
	X, Y, _ := equivalenceData(15, 1)
	want := exactReference(t, X, Y)

	m := NewSGPR(kernel.NewRBF(1), X)
	m.InducingInputs().Fixed = true
	pinAll(t, m.Params())
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("SGPR Fit: %v", err)
	}
	got, err := m.Bound()
	if err != nil {
		t.Fatalf("SGPR Bound: %v", err)
	}
	// Jitter on Kuu keeps this from being exact.
	if !scalar.EqualWithinAbsOrRel(got, want, 1e-4, 1e-6) {
		t.Errorf("collapsed bound = %v, exact log likelihood = %v", got, want)
	}
}

func TestSGPRBoundNeverExceedsExact(t *testing.T) {
	X, Y, _ := equivalenceData(15, 1)
	want := exactReference(t, X, Y)

	// A strict subset of inducing points gives a strictly lower bound.
	Z := mat.DenseCopyOf(X.Slice(0, 5, 0, 1))
	m := NewSGPR(kernel.NewRBF(1), Z)
	m.InducingInputs().Fixed = true
	pinAll(t, m.Params())
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("SGPR Fit: %v", err)
	}
	got, err := m.Bound()
	if err != nil {
		t.Fatalf("SGPR Bound: %v", err)
	}
	if got > want+1e-6 {
		t.Errorf("bound %v exceeds exact log likelihood %v", got, want)
	}
}

func TestGPRFITCMatchesExactWithFullInducing(t *testing.T) {
	X, Y, _ := equivalenceData(15, 1)
	want := exactReference(t, X, Y)

	m := NewGPRFITC(kernel.NewRBF(1), X)
	m.InducingInputs().Fixed = true
	pinAll(t, m.Params())
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("GPRFITC Fit: %v", err)
	}
	got, err := m.LogMarginalLikelihood()
	if err != nil {
		t.Fatalf("GPRFITC LogMarginalLikelihood: %v", err)
	}
	if !scalar.EqualWithinAbsOrRel(got, want, 1e-4, 1e-6) {
		t.Errorf("FITC log likelihood = %v, exact = %v", got, want)
	}
}

func TestSGPRPredictMatchesGPRWithFullInducing(t *testing.T) {
	X, Y, Xtest := equivalenceData(15, 5)

	ref := NewGPR(kernel.NewRBF(1))
	pinAll(t, ref.Params())
	if err := ref.Fit(X, Y); err != nil {
		t.Fatalf("GPR Fit: %v", err)
	}
	wantMean, wantVar, err := ref.PredictY(Xtest)
	if err != nil {
		t.Fatalf("GPR PredictY: %v", err)
	}

	m := NewSGPR(kernel.NewRBF(1), X)
	m.InducingInputs().Fixed = true
	pinAll(t, m.Params())
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("SGPR Fit: %v", err)
	}
	mean, variance, err := m.PredictY(Xtest)
	if err != nil {
		t.Fatalf("SGPR PredictY: %v", err)
	}

	r, c := wantMean.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !scalar.EqualWithinAbsOrRel(mean.At(i, j), wantMean.At(i, j), 1e-4, 1e-4) {
				t.Errorf("mean[%d,%d] = %v, want %v", i, j, mean.At(i, j), wantMean.At(i, j))
			}
			if !scalar.EqualWithinAbsOrRel(variance.At(i, j), wantVar.At(i, j), 1e-4, 1e-4) {
				t.Errorf("variance[%d,%d] = %v, want %v", i, j, variance.At(i, j), wantVar.At(i, j))
			}
		}
	}
}

func TestSparseModelsRejectMismatchedInducingDims(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{0, 0, 1, 0, 0, 1, 1, 1})
	Y := mat.NewDense(4, 1, []float64{0, 1, 1, 0})
	Z := mat.NewDense(2, 1, []float64{0, 1})

	if err := NewSGPR(kernel.NewRBF(2), Z).Fit(X, Y); err == nil {
		t.Error("SGPR accepted inducing inputs with the wrong width")
	}
	if err := NewGPRFITC(kernel.NewRBF(2), Z).Fit(X, Y); err == nil {
		t.Error("GPRFITC accepted inducing inputs with the wrong width")
	}
	if err := NewSVGP(kernel.NewRBF(2), Z).Fit(X, Y); err == nil {
		t.Error("SVGP accepted inducing inputs with the wrong width")
	}
}
