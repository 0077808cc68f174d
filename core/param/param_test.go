package param

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestPositiveRoundTrip(t *testing.T) {
	p := NewPositive("variance", 2.5)

	free := p.Free(nil)
	if len(free) != 1 {
		t.Fatalf("expected 1 free value, got %d", len(free))
	}
	if !scalar.EqualWithinAbs(free[0], math.Log(2.5), 1e-15) {
		t.Errorf("free value should be log(2.5), got %v", free[0])
	}

	p.SetFree([]float64{0})
	if !scalar.EqualWithinAbs(p.Value(0), 1.0, 1e-15) {
		t.Errorf("exp(0) should give 1, got %v", p.Value(0))
	}
}

func TestPositiveRejectsNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewPositive should panic on a non-positive initial value")
		}
	}()
	NewPositive("variance", -1)
}

func TestSetDomainCheck(t *testing.T) {
	p := NewPositive("lengthscale", 1)
	if err := p.Set(0, -3); err == nil {
		t.Error("Set should reject values outside the domain")
	}
	if err := p.Set(0, 3); err != nil {
		t.Errorf("Set should accept in-domain values: %v", err)
	}
}

func TestPackUnpackSkipsFixed(t *testing.T) {
	a := New("mean", 0.5)
	z := New("inducing", 1, 2, 3)
	z.Fixed = true
	v := NewPositive("variance", 4)

	params := []*Param{a, z, v}
	if got := CountFree(params); got != 2 {
		t.Fatalf("CountFree = %d, want 2", got)
	}

	x := Pack(params)
	want := []float64{0.5, math.Log(4)}
	if !floats.EqualApprox(x, want, 1e-15) {
		t.Fatalf("Pack = %v, want %v", x, want)
	}

	used := Unpack(params, []float64{-1, 0})
	if used != 2 {
		t.Errorf("Unpack consumed %d values, want 2", used)
	}
	if a.Value(0) != -1 {
		t.Errorf("mean not updated: %v", a.Value(0))
	}
	if !scalar.EqualWithinAbs(v.Value(0), 1, 1e-15) {
		t.Errorf("variance should be exp(0)=1, got %v", v.Value(0))
	}
	// Fixed parameter untouched.
	if z.Value(0) != 1 || z.Value(1) != 2 || z.Value(2) != 3 {
		t.Error("fixed parameter was modified")
	}
}
