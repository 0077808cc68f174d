package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestMSEAndRMSE(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{1, 2, 5})

	mse, err := MSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSE: %v", err)
	}
	if want := 4.0 / 3.0; !scalar.EqualWithinAbs(mse, want, 1e-12) {
		t.Errorf("MSE = %v, want %v", mse, want)
	}

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE: %v", err)
	}
	if want := math.Sqrt(4.0 / 3.0); !scalar.EqualWithinAbs(rmse, want, 1e-12) {
		t.Errorf("RMSE = %v, want %v", rmse, want)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewDense(2, 2, []float64{1, -1, 2, -2})
	yPred := mat.NewDense(2, 2, []float64{2, -1, 2, -4})

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE: %v", err)
	}
	if want := 0.75; mae != want {
		t.Errorf("MAE = %v, want %v", mae, want)
	}
}

func TestR2Score(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	t.Run("perfect", func(t *testing.T) {
		r2, err := R2Score(yTrue, yTrue)
		if err != nil {
			t.Fatalf("R2Score: %v", err)
		}
		if r2 != 1 {
			t.Errorf("R2 = %v, want 1", r2)
		}
	})

	t.Run("mean predictor", func(t *testing.T) {
		yPred := mat.NewDense(4, 1, []float64{2.5, 2.5, 2.5, 2.5})
		r2, err := R2Score(yTrue, yPred)
		if err != nil {
			t.Fatalf("R2Score: %v", err)
		}
		if !scalar.EqualWithinAbs(r2, 0, 1e-12) {
			t.Errorf("R2 = %v, want 0", r2)
		}
	})

	t.Run("constant target exact prediction", func(t *testing.T) {
		yConst := mat.NewDense(3, 1, []float64{7, 7, 7})
		r2, err := R2Score(yConst, yConst)
		if err != nil {
			t.Fatalf("R2Score: %v", err)
		}
		if r2 != 1 {
			t.Errorf("R2 = %v, want 1", r2)
		}
	})
}

func TestNLPD(t *testing.T) {
	yTrue := mat.NewDense(1, 1, []float64{1})
	yPred := mat.NewDense(1, 1, []float64{0})
	yVar := mat.NewDense(1, 1, []float64{2})

	nlpd, err := NLPD(yTrue, yPred, yVar)
	if err != nil {
		t.Fatalf("NLPD: %v", err)
	}
	want := 0.5 * (math.Log(2*math.Pi) + math.Log(2) + 0.5)
	if !scalar.EqualWithinAbs(nlpd, want, 1e-12) {
		t.Errorf("NLPD = %v, want %v", nlpd, want)
	}

	if _, err := NLPD(yTrue, yPred, mat.NewDense(1, 1, []float64{0})); err == nil {
		t.Error("expected an error for non-positive variance")
	}
}

func TestShapeValidation(t *testing.T) {
	a := mat.NewDense(2, 1, []float64{1, 2})
	b := mat.NewDense(3, 1, []float64{1, 2, 3})
	if _, err := MSE(a, b); err == nil {
		t.Error("MSE accepted mismatched shapes")
	}
	if _, err := R2Score(a, b); err == nil {
		t.Error("R2Score accepted mismatched shapes")
	}
}
