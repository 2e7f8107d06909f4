package layer

import "github.com/gridsense/powercast/internal/activations"

// AttentionPool collapses a sequence of vectors into a single context
// vector via global dot-product attention: each step is scored against
// a learned context query, the scores are softmax-normalized and the
// output is the weighted sum of the step vectors. This is the pooling
// stage between the bidirectional encoder and the regression head.
type AttentionPool struct {
	seqLen int
	dim    int

	// Learned query the steps are scored against.
	contextVector []float64

	scores    []float64
	outputBuf []float64
}

// NewAttentionPool creates an attention pooling layer with a zeroed
// context vector. Parameters come from the model artifact via SetParams.
func NewAttentionPool(seqLen, dim int) *AttentionPool {
	return &AttentionPool{
		seqLen:        seqLen,
		dim:           dim,
		contextVector: make([]float64, dim),
		scores:        make([]float64, seqLen),
		outputBuf:     make([]float64, dim),
	}
}

// Forward pools the flat [seqLen * dim] sequence into a [dim] vector.
func (a *AttentionPool) Forward(x []float64) []float64 {
	// Similarity scores: dot(step_t, contextVector)
	for t := 0; t < a.seqLen; t++ {
		base := t * a.dim
		dot := 0.0
		for i := 0; i < a.dim; i++ {
			dot += x[base+i] * a.contextVector[i]
		}
		a.scores[t] = dot
	}

	softmax := activations.Softmax{}
	weights := softmax.ActivateBatch(a.scores)

	for i := range a.outputBuf {
		a.outputBuf[i] = 0
	}
	for t := 0; t < a.seqLen; t++ {
		w := weights[t]
		base := t * a.dim
		for i := 0; i < a.dim; i++ {
			a.outputBuf[i] += w * x[base+i]
		}
	}

	return a.outputBuf
}

// Params returns the learned context vector (copy).
func (a *AttentionPool) Params() []float64 {
	params := make([]float64, a.dim)
	copy(params, a.contextVector)
	return params
}

// SetParams sets the context vector.
func (a *AttentionPool) SetParams(params []float64) {
	copy(a.contextVector, params)
}

// InSize returns seqLen * dim.
func (a *AttentionPool) InSize() int {
	return a.seqLen * a.dim
}

// OutSize returns dim.
func (a *AttentionPool) OutSize() int {
	return a.dim
}

// SeqLen returns the sequence length the layer was built for.
func (a *AttentionPool) SeqLen() int {
	return a.seqLen
}
