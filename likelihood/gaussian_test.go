package likelihood

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestLogDensity(t *testing.T) {
	l := NewGaussian()
	// Standard normal at the mean: log(1/sqrt(2 pi)).
	want := -0.5 * math.Log(2*math.Pi)
	if got := l.LogDensity(0, 0); !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("LogDensity(0,0) = %v, want %v", got, want)
	}

	if err := l.SetVariance(4); err != nil {
		t.Fatal(err)
	}
	// N(1; 0, 4): -0.5*(log 2pi + log 4 + 1/4)
	want = -0.5 * (math.Log(2*math.Pi) + math.Log(4) + 0.25)
	if got := l.LogDensity(1, 0); !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("LogDensity(1,0) = %v, want %v", got, want)
	}
}

func TestVariationalExpectation(t *testing.T) {
	l := NewGaussian()
	if err := l.SetVariance(2); err != nil {
		t.Fatal(err)
	}

	// With zero latent variance it reduces to the log density.
	if got, want := l.VariationalExpectation(1, 0.5, 0), l.LogDensity(1, 0.5); !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("VE with s2=0: got %v, want %v", got, want)
	}

	// The correction term is -s2/(2 variance).
	got := l.VariationalExpectation(1, 0.5, 3)
	want := l.LogDensity(1, 0.5) - 3.0/(2*2)
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("VE with s2=3: got %v, want %v", got, want)
	}
}

func TestPredictMeanVar(t *testing.T) {
	l := NewGaussian()
	if err := l.SetVariance(0.25); err != nil {
		t.Fatal(err)
	}
	mu, v := l.PredictMeanVar(1.5, 0.5)
	if mu != 1.5 {
		t.Errorf("predictive mean should pass through, got %v", mu)
	}
	if !scalar.EqualWithinAbs(v, 0.75, 1e-12) {
		t.Errorf("predictive variance = %v, want 0.75", v)
	}
}

func TestSetVarianceValidation(t *testing.T) {
	l := NewGaussian()
	if err := l.SetVariance(-1); err == nil {
		t.Error("negative variance should be rejected")
	}
}
