package activations

import (
	"math"
	"testing"
)

func TestReLU(t *testing.T) {
	r := ReLU{}
	if got := r.Activate(2.5); got != 2.5 {
		t.Errorf("ReLU(2.5) = %v, want 2.5", got)
	}
	if got := r.Activate(-1.0); got != 0 {
		t.Errorf("ReLU(-1.0) = %v, want 0", got)
	}
}

func TestSigmoid(t *testing.T) {
	s := Sigmoid{}
	if got := s.Activate(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Sigmoid(0) = %v, want 0.5", got)
	}
	want := 1 / (1 + math.Exp(-2))
	if got := s.Activate(2); math.Abs(got-want) > 1e-12 {
		t.Errorf("Sigmoid(2) = %v, want %v", got, want)
	}
}

func TestTanh(t *testing.T) {
	th := Tanh{}
	if got := th.Activate(0.7); math.Abs(got-math.Tanh(0.7)) > 1e-12 {
		t.Errorf("Tanh(0.7) = %v, want %v", got, math.Tanh(0.7))
	}
}

func TestLinear(t *testing.T) {
	l := Linear{}
	if got := l.Activate(-3.25); got != -3.25 {
		t.Errorf("Linear(-3.25) = %v, want -3.25", got)
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	s := Softmax{}
	out := s.ActivateBatch([]float64{1, 2, 3, 4})

	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("softmax sum = %v, want 1", sum)
	}
	for i := 1; i < len(out); i++ {
		if out[i] <= out[i-1] {
			t.Errorf("softmax not monotone over increasing scores: %v", out)
		}
	}
}

func TestSoftmaxUniform(t *testing.T) {
	s := Softmax{}
	out := s.ActivateBatch([]float64{0.5, 0.5, 0.5, 0.5})
	for i, v := range out {
		if math.Abs(v-0.25) > 1e-12 {
			t.Errorf("uniform softmax[%d] = %v, want 0.25", i, v)
		}
	}
}

// Softmax over large scores must not overflow thanks to the max shift.
func TestSoftmaxStability(t *testing.T) {
	s := Softmax{}
	out := s.ActivateBatch([]float64{1000, 1001})
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("softmax[%d] = %v for large scores", i, v)
		}
	}
	if out[1] <= out[0] {
		t.Errorf("softmax order broken: %v", out)
	}
}

func TestByNameRoundTrip(t *testing.T) {
	for _, name := range []string{"ReLU", "Sigmoid", "Tanh", "Linear"} {
		if got := Name(ByName(name)); got != name {
			t.Errorf("Name(ByName(%q)) = %q", name, got)
		}
	}
	// Unknown names fall back to Linear.
	if got := Name(ByName("Swish")); got != "Linear" {
		t.Errorf("unknown activation resolved to %q, want Linear", got)
	}
}
