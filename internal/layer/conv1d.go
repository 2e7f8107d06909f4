package layer

import "github.com/gridsense/powercast/internal/activations"

// Conv1D is a temporal convolution over a sequence of channel vectors.
// It slides a kernel along the time axis with "same" zero padding, so
// the output keeps the sequence length while mapping inChannels to
// outChannels at every step. The forecast model uses it as the feature
// extractor in front of the recurrent encoder.
//
// Weights are stored as [outChannels * kernel * inChannels]: the weight
// for output channel o, kernel tap k, input channel i is at
// weights[(o*kernel+k)*inChannels+i].
type Conv1D struct {
	seqLen      int
	inChannels  int
	outChannels int
	kernel      int
	act         activations.Activation

	weights []float64
	biases  []float64

	outputBuf []float64
}

// NewConv1D creates a temporal convolution layer with zeroed parameters.
// kernel must be odd so that "same" padding is symmetric.
func NewConv1D(seqLen, inChannels, outChannels, kernel int, act activations.Activation) *Conv1D {
	if kernel%2 == 0 {
		panic("layer: Conv1D kernel size must be odd")
	}
	return &Conv1D{
		seqLen:      seqLen,
		inChannels:  inChannels,
		outChannels: outChannels,
		kernel:      kernel,
		act:         act,
		weights:     make([]float64, outChannels*kernel*inChannels),
		biases:      make([]float64, outChannels),
		outputBuf:   make([]float64, seqLen*outChannels),
	}
}

// Forward convolves the flat [seqLen * inChannels] input along the time
// axis. Taps that fall outside the sequence contribute zero.
func (c *Conv1D) Forward(x []float64) []float64 {
	half := c.kernel / 2
	for t := 0; t < c.seqLen; t++ {
		outBase := t * c.outChannels
		for o := 0; o < c.outChannels; o++ {
			sum := c.biases[o]
			for k := 0; k < c.kernel; k++ {
				ts := t + k - half
				if ts < 0 || ts >= c.seqLen {
					continue
				}
				wBase := (o*c.kernel + k) * c.inChannels
				inBase := ts * c.inChannels
				for i := 0; i < c.inChannels; i++ {
					sum += c.weights[wBase+i] * x[inBase+i]
				}
			}
			c.outputBuf[outBase+o] = c.act.Activate(sum)
		}
	}
	return c.outputBuf
}

// Params returns weights then biases, flattened (copy).
func (c *Conv1D) Params() []float64 {
	params := make([]float64, 0, len(c.weights)+len(c.biases))
	params = append(params, c.weights...)
	params = append(params, c.biases...)
	return params
}

// SetParams updates weights and biases from a flattened slice.
func (c *Conv1D) SetParams(params []float64) {
	copy(c.weights, params[:len(c.weights)])
	copy(c.biases, params[len(c.weights):])
}

// InSize returns seqLen * inChannels.
func (c *Conv1D) InSize() int {
	return c.seqLen * c.inChannels
}

// OutSize returns seqLen * outChannels.
func (c *Conv1D) OutSize() int {
	return c.seqLen * c.outChannels
}

// SeqLen returns the sequence length the layer was built for.
func (c *Conv1D) SeqLen() int {
	return c.seqLen
}

// Kernel returns the kernel size.
func (c *Conv1D) Kernel() int {
	return c.kernel
}

// InChannels returns the input channel count.
func (c *Conv1D) InChannels() int {
	return c.inChannels
}

// OutChannels returns the output channel count.
func (c *Conv1D) OutChannels() int {
	return c.outChannels
}

// Activation returns the activation function used by this layer.
func (c *Conv1D) Activation() activations.Activation {
	return c.act
}
