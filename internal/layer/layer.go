// Package layer provides the inference-time layer implementations for
// the forecast network. Layers carry no optimizer or gradient state:
// parameters are loaded from a serialized model snapshot and are
// read-only afterwards, so a network can be shared by concurrent
// requests.
package layer

import "github.com/gridsense/powercast/internal/activations"

// Layer is a single stage of the network. Inputs and outputs are flat
// float64 vectors; sequence layers treat a vector of length
// steps*channels as steps consecutive channel groups, oldest first.
type Layer interface {
	Forward(x []float64) []float64
	Params() []float64
	SetParams([]float64)
	InSize() int
	OutSize() int
}

// Dense is a fully connected layer.
// Weights are stored row-major as [out * in] for cache efficiency;
// the weight connecting output o to input i is at weights[o*in+i].
type Dense struct {
	weights []float64
	biases  []float64
	act     activations.Activation
	inSize  int
	outSize int

	outputBuf []float64
}

// NewDense creates a dense layer with zeroed parameters.
// Weights come from the model artifact via SetParams.
func NewDense(in, out int, act activations.Activation) *Dense {
	return &Dense{
		weights:   make([]float64, out*in),
		biases:    make([]float64, out),
		act:       act,
		inSize:    in,
		outSize:   out,
		outputBuf: make([]float64, out),
	}
}

// Forward computes act(Wx + b) into a reused buffer.
func (d *Dense) Forward(x []float64) []float64 {
	for o := 0; o < d.outSize; o++ {
		sum := d.biases[o]
		wBase := o * d.inSize
		for i := 0; i < d.inSize; i++ {
			sum += d.weights[wBase+i] * x[i]
		}
		d.outputBuf[o] = d.act.Activate(sum)
	}
	return d.outputBuf[:d.outSize]
}

// Params returns weights then biases, flattened (copy).
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, len(d.weights)+len(d.biases))
	params = append(params, d.weights...)
	params = append(params, d.biases...)
	return params
}

// SetParams updates weights and biases from a flattened slice.
func (d *Dense) SetParams(params []float64) {
	copy(d.weights, params[:len(d.weights)])
	copy(d.biases, params[len(d.weights):])
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation {
	return d.act
}
