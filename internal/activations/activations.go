// Package activations provides the activation functions used by the
// forecast network at inference time.
package activations

import "math"

// Activation is a pointwise activation function.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64
}

// Linear is the identity activation, used by regression heads.
type Linear struct{}

// Activate returns x unchanged.
func (l Linear) Activate(x float64) float64 {
	return x
}

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

// sigmoid computes the logistic function.
// Inline for performance
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Softmax normalizes a score vector into a probability distribution.
// Unlike the pointwise activations it operates on a whole slice; the
// attention pooling layer uses it to turn similarity scores into weights.
type Softmax struct{}

// ActivateBatch computes softmax over the full slice with max-shift
// for numeric stability.
func (s Softmax) ActivateBatch(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}

	maxVal := xs[0]
	for _, x := range xs[1:] {
		if x > maxVal {
			maxVal = x
		}
	}

	var sum float64
	for i, x := range xs {
		e := math.Exp(x - maxVal)
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// ByName resolves an activation from its serialized name.
// Unknown names fall back to Linear so that a stale model file degrades
// to a plain affine layer instead of failing to load.
func ByName(name string) Activation {
	switch name {
	case "ReLU":
		return ReLU{}
	case "Sigmoid":
		return Sigmoid{}
	case "Tanh":
		return Tanh{}
	case "Linear":
		return Linear{}
	default:
		return Linear{}
	}
}

// Name returns the serialized name for an activation.
func Name(act Activation) string {
	switch act.(type) {
	case ReLU:
		return "ReLU"
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	case Linear:
		return "Linear"
	default:
		return "Linear"
	}
}
